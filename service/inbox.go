package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MKato2361/Report-maker-V3/config"
	"github.com/MKato2361/Report-maker-V3/model"
)

// InboxService loads report rows from the exported inbox sheet (a CSV
// download URL). Column naming in the sheet has drifted over time, so rows
// are reconciled through an alias table with a positional last resort.
type InboxService struct {
	config     *config.InboxConfig
	httpClient *http.Client
}

func NewInboxService(cfg *config.InboxConfig) *InboxService {
	return &InboxService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// LoadByToken fetches the sheet and returns the canonical record for the row
// whose token column matches token. A missing row is ErrRowNotFound; every
// other failure (no URL configured, fetch error, unusable CSV) is
// ErrSourceUnavailable.
func (s *InboxService) LoadByToken(ctx context.Context, token string) (model.Record, error) {
	if s.config.CSVURL == "" {
		return nil, fmt.Errorf("%w: SHEET_CSV_URL is not configured", ErrSourceUnavailable)
	}

	header, rows, err := s.fetchCSV(ctx)
	if err != nil {
		return nil, err
	}

	tokenCol := -1
	for i, name := range header {
		if strings.TrimSpace(name) == "token" {
			tokenCol = i
			break
		}
	}
	if tokenCol < 0 {
		return nil, fmt.Errorf("%w: sheet has no token column", ErrSourceUnavailable)
	}

	for _, row := range rows {
		if tokenCol < len(row) && strings.TrimSpace(row[tokenCol]) == token {
			return reconcileRow(header, row, tokenCol), nil
		}
	}
	return nil, fmt.Errorf("%w: token %q", ErrRowNotFound, token)
}

func (s *InboxService) fetchCSV(ctx context.Context) ([]string, [][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.CSVURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("%w: sheet returned status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1 // exported sheets pad rows unevenly
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: sheet is empty", ErrSourceUnavailable)
	}
	return records[0], records[1:], nil
}

// reconcileRow maps one sheet row onto the canonical key set. Header names go
// through the alias table; when two columns land on the same key the longer
// non-empty value wins, so duplicated legacy columns cannot blank a field.
// When no header resolves at all, the historical column order is assumed.
func reconcileRow(header, row []string, tokenCol int) model.Record {
	rec := model.NewRecord()

	matched := false
	for i, name := range header {
		if i == tokenCol || i >= len(row) {
			continue
		}
		key, ok := model.ColumnAliases[strings.TrimSpace(name)]
		if !ok {
			continue
		}
		matched = true
		setLongerWins(rec, key, row[i])
	}
	if matched {
		return rec
	}

	// Positional fallback, token assumed in column 0. Kept only for sheets
	// whose header row was lost; header aliasing is always preferred.
	col := 0
	for i, val := range row {
		if i == tokenCol {
			continue
		}
		if col >= len(model.PositionalColumns) {
			break
		}
		setLongerWins(rec, model.PositionalColumns[col], val)
		col++
	}
	return rec
}

func setLongerWins(rec model.Record, key, val string) {
	v := strings.TrimSpace(val)
	if v == "" {
		return
	}
	if len([]rune(v)) > len([]rune(rec[key])) {
		rec[key] = v
	}
}
