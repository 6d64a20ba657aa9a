package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MKato2361/Report-maker-V3/middleware"
	"github.com/MKato2361/Report-maker-V3/model"
	"github.com/MKato2361/Report-maker-V3/pkg/logger"
	"github.com/MKato2361/Report-maker-V3/service"
)

type ReportHandler struct {
	inbox   *service.InboxService
	storage *service.TemplateStorage
	store   *service.SessionStore
}

func NewReportHandler(inboxSvc *service.InboxService, storage *service.TemplateStorage) *ReportHandler {
	return &ReportHandler{
		inbox:   inboxSvc,
		storage: storage,
		store:   service.GetSessionStore(),
	}
}

type ExtractRequest struct {
	Text           string `json:"text" binding:"required"`
	Affiliation    string `json:"affiliation"`
	PostRepairNote string `json:"post_repair_note"`
}

type LoadRequest struct {
	Token string `json:"token" binding:"required"`
}

// Durations are the three spans shown on the review screen, pre-formatted
// (e.g. "1時間05分", "—" when an endpoint is missing or the span is negative).
type Durations struct {
	ReceiveToArrive   string `json:"receive_to_arrive"`
	Work              string `json:"work"`
	ReceiveToComplete string `json:"receive_to_complete"`
}

func durationsOf(rec model.Record) Durations {
	return Durations{
		ReceiveToArrive:   service.FormatMinutes(service.MinutesBetween(rec[model.KeyReceivedAt], rec[model.KeyArrivedAt])),
		Work:              service.FormatMinutes(service.MinutesBetween(rec[model.KeyArrivedAt], rec[model.KeyCompletedAt])),
		ReceiveToComplete: service.FormatMinutes(service.MinutesBetween(rec[model.KeyReceivedAt], rec[model.KeyCompletedAt])),
	}
}

func sessionView(sess *model.ReportSession) gin.H {
	working := sess.Working()
	return gin.H{
		"id":         sess.ID,
		"source":     sess.Source,
		"record":     working,
		"editing":    sess.Editing(),
		"missing":    model.MissingRequired(working),
		"durations":  durationsOf(working),
		"created_at": sess.CreatedAt.Format(time.RFC3339),
		"updated_at": sess.UpdatedAt.Format(time.RFC3339),
	}
}

// Extract parses a pasted mail body into a new report session
func (h *ReportHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mail text is required"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mail text is empty"})
		return
	}

	rec := service.ExtractFields(req.Text)
	// Affiliation and the post-repair note are operator input, never mail
	// content; they ride in with the request.
	rec[model.KeyAffiliation] = req.Affiliation
	rec[model.KeyPostRepairNote] = req.PostRepairNote

	sess := h.newSession(c, model.SourceMail, rec)
	logger.Info(c.Request.Context(), "report extracted from mail",
		"session_id", sess.ID,
		"management_id", rec[model.KeyManagementID],
	)

	c.JSON(http.StatusOK, sessionView(sess))
}

// Load builds a report session from an inbox-sheet row looked up by token
func (h *ReportHandler) Load(c *gin.Context) {
	var req LoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	rec, err := h.inbox.LoadByToken(c.Request.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRowNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrSourceUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	sess := h.newSession(c, model.SourceInbox, rec)
	logger.Info(c.Request.Context(), "report loaded from inbox",
		"session_id", sess.ID,
		"token", req.Token,
	)

	c.JSON(http.StatusOK, sessionView(sess))
}

func (h *ReportHandler) newSession(c *gin.Context, source string, rec model.Record) *model.ReportSession {
	sess := &model.ReportSession{
		ID:        uuid.New().String(),
		Operator:  middleware.GetOperator(c),
		Source:    source,
		Record:    rec,
		CreatedAt: time.Now(),
	}
	h.store.Save(sess)
	return sess
}

// List returns all report sessions for the current operator
func (h *ReportHandler) List(c *gin.Context) {
	operator := middleware.GetOperator(c)
	sessions := h.store.GetByOperator(operator)

	result := make([]gin.H, len(sessions))
	for i, sess := range sessions {
		result[i] = gin.H{
			"id":            sess.ID,
			"source":        sess.Source,
			"management_id": sess.Record[model.KeyManagementID],
			"property_name": sess.Record[model.KeyPropertyName],
			"editing":       sess.Editing(),
			"created_at":    sess.CreatedAt.Format(time.RFC3339),
			"updated_at":    sess.UpdatedAt.Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, gin.H{"reports": result})
}

// Get returns a single report session with its working record
func (h *ReportHandler) Get(c *gin.Context) {
	sess := h.owned(c)
	if sess == nil {
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

// Delete discards a report session entirely (the "start over" action)
func (h *ReportHandler) Delete(c *gin.Context) {
	sess := h.owned(c)
	if sess == nil {
		return
	}
	h.store.Delete(sess.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted"})
}

// owned fetches the session in :id and enforces ownership; on failure it has
// already written the 404.
func (h *ReportHandler) owned(c *gin.Context) *model.ReportSession {
	sess := h.store.Get(c.Param("id"))
	if sess == nil || sess.Operator != middleware.GetOperator(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return nil
	}
	return sess
}

// OpenDraft enters bulk-edit mode: the committed record is snapshotted into
// a draft buffer that later replaces it wholesale or is discarded.
func (h *ReportHandler) OpenDraft(c *gin.Context) {
	sess := h.owned(c)
	if sess == nil {
		return
	}
	if !h.store.OpenDraft(sess.ID) {
		c.JSON(http.StatusConflict, gin.H{"error": "A draft is already open"})
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

type DraftRequest struct {
	Record map[string]string `json:"record" binding:"required"`
}

// UpdateDraft replaces the draft buffer with the submitted record. Unknown
// keys are dropped; missing keys fall back to the current draft value, so the
// buffer always spans the full canonical key set.
func (h *ReportHandler) UpdateDraft(c *gin.Context) {
	sess := h.owned(c)
	if sess == nil {
		return
	}
	if !sess.Editing() {
		c.JSON(http.StatusConflict, gin.H{"error": "No draft is open"})
		return
	}

	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Record is required"})
		return
	}

	draft := sess.Draft.Clone()
	for _, key := range model.AllKeys {
		if v, ok := req.Record[key]; ok {
			draft[key] = v
		}
	}
	// Work minutes stay derived from the timestamps, never hand-entered.
	if mins, ok := service.MinutesBetween(draft[model.KeyArrivedAt], draft[model.KeyCompletedAt]); ok && mins >= 0 {
		draft[model.KeyWorkMinutes] = fmt.Sprintf("%d", mins)
	} else {
		draft[model.KeyWorkMinutes] = ""
	}

	if !h.store.UpdateDraft(sess.ID, draft) {
		c.JSON(http.StatusConflict, gin.H{"error": "No draft is open"})
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

// CommitDraft saves the draft as the new committed record
func (h *ReportHandler) CommitDraft(c *gin.Context) {
	sess := h.owned(c)
	if sess == nil {
		return
	}
	if !h.store.CommitDraft(sess.ID) {
		c.JSON(http.StatusConflict, gin.H{"error": "No draft is open"})
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

// DiscardDraft drops the draft without touching the committed record
func (h *ReportHandler) DiscardDraft(c *gin.Context) {
	sess := h.owned(c)
	if sess == nil {
		return
	}
	if !h.store.DiscardDraft(sess.ID) {
		c.JSON(http.StatusConflict, gin.H{"error": "No draft is open"})
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

// Generate fills the template with the committed record and streams the
// workbook back. Generation is refused while a draft is open and while any
// required field is blank; both are caller-fixable conditions, not errors.
func (h *ReportHandler) Generate(c *gin.Context) {
	sess := h.owned(c)
	if sess == nil {
		return
	}
	if sess.Editing() {
		c.JSON(http.StatusConflict, gin.H{"error": "Commit or discard the open draft before generating"})
		return
	}

	missing := model.MissingRequired(sess.Record)
	if len(missing) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Required fields are missing",
			"missing": missing,
		})
		return
	}

	templateBytes, err := h.templateBytes(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := service.FillTemplate(templateBytes, sess.Record)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateMalformed):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrWriteFailed):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	filename := service.BuildFilename(sess.Record)

	if err := h.storage.ArchiveReport(c.Request.Context(), filename, output); err != nil {
		logger.Warn(c.Request.Context(), "report archive failed",
			"session_id", sess.ID,
			"error", err,
		)
	}

	logger.Info(c.Request.Context(), "report generated",
		"session_id", sess.ID,
		"filename", filename,
		"size", len(output),
	)

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	c.Data(http.StatusOK, service.ContentType, output)
}

// templateBytes resolves the workbook for this call: a multipart upload named
// "template" wins over the configured sources.
func (h *ReportHandler) templateBytes(c *gin.Context) ([]byte, error) {
	if file, _, err := c.Request.FormFile("template"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded template: %w", err)
		}
		return data, nil
	}
	return h.storage.LoadTemplate(c.Request.Context())
}
