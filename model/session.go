package model

import (
	"strings"
	"time"
)

// ReportSession holds one working report between extraction and download.
// Draft is non-nil while the operator is in bulk-edit mode; it is a full
// snapshot that either replaces Record on commit or is dropped on cancel.
type ReportSession struct {
	ID        string    `json:"id"`
	Operator  string    `json:"operator"`
	Source    string    `json:"source"` // mail, inbox
	Record    Record    `json:"record"`
	Draft     Record    `json:"draft,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session source constants
const (
	SourceMail  = "mail"
	SourceInbox = "inbox"
)

// Working returns the record edits should apply to: the draft while editing,
// the committed record otherwise.
func (s *ReportSession) Working() Record {
	if s.Draft != nil {
		return s.Draft
	}
	return s.Record
}

// Editing reports whether a bulk-edit draft is open.
func (s *ReportSession) Editing() bool {
	return s.Draft != nil
}

// MissingRequired returns the required keys that are empty or whitespace-only
// in r, in RequiredKeys order.
func MissingRequired(r Record) []string {
	var missing []string
	for _, k := range RequiredKeys {
		if strings.TrimSpace(r[k]) == "" {
			missing = append(missing, k)
		}
	}
	return missing
}
