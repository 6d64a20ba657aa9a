package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/MKato2361/Report-maker-V3/config"
)

// TemplateStorage resolves the report template and optionally archives
// generated reports. The template comes from object storage when configured,
// otherwise from the local path next to the binary.
type TemplateStorage struct {
	client *minio.Client
	config *config.TemplateConfig
}

func NewTemplateStorage(cfg *config.TemplateConfig) (*TemplateStorage, error) {
	s := &TemplateStorage{config: cfg}

	if cfg.Minio.Endpoint != "" {
		client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
			Secure: cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		s.client = client
	}

	return s, nil
}

// LoadTemplate returns the template workbook bytes: object storage first,
// then the configured local path.
func (s *TemplateStorage) LoadTemplate(ctx context.Context) ([]byte, error) {
	if s.client != nil {
		obj, err := s.client.GetObject(ctx, s.config.Minio.Bucket, s.config.Minio.TemplateKey, minio.GetObjectOptions{})
		if err == nil {
			data, rerr := io.ReadAll(obj)
			obj.Close()
			if rerr == nil && len(data) > 0 {
				return data, nil
			}
		}
		// Fall through to the local template on any storage trouble.
	}

	data, err := os.ReadFile(s.config.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: no template at %s", ErrTemplateMalformed, s.config.Path)
	}
	return data, nil
}

// ArchiveReport stores a generated report beside the template when archiving
// is enabled. Archive failures are the caller's to log; the download itself
// must not depend on them.
func (s *TemplateStorage) ArchiveReport(ctx context.Context, filename string, data []byte) error {
	if !s.config.Archive || s.client == nil {
		return nil
	}
	objectName := fmt.Sprintf("%s/%s", s.config.Minio.ArchivePrefix, filename)
	_, err := s.client.PutObject(ctx, s.config.Minio.Bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: ContentType})
	if err != nil {
		return fmt.Errorf("failed to archive report: %w", err)
	}
	return nil
}
