package service

import (
	"strconv"
	"testing"
	"time"

	"github.com/MKato2361/Report-maker-V3/model"
)

func newTestStore(max int) *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*model.ReportSession),
		maxSessions: max,
	}
}

func newTestSession(id, operator string) *model.ReportSession {
	return &model.ReportSession{
		ID:        id,
		Operator:  operator,
		Source:    model.SourceMail,
		Record:    model.NewRecord(),
		CreatedAt: time.Now(),
	}
}

func TestStoreSaveAndGet(t *testing.T) {
	store := newTestStore(0)
	sess := newTestSession("s1", "op1")
	store.Save(sess)

	got := store.Get("s1")
	if got == nil {
		t.Fatal("Expected session, got nil")
	}
	if got.UpdatedAt.IsZero() {
		t.Error("Expected UpdatedAt to be set on save")
	}
	if store.Get("nope") != nil {
		t.Error("Expected nil for unknown ID")
	}
}

func TestStoreGetByOperator(t *testing.T) {
	store := newTestStore(0)
	store.Save(newTestSession("s1", "op1"))
	store.Save(newTestSession("s2", "op1"))
	store.Save(newTestSession("s3", "op2"))

	got := store.GetByOperator("op1")
	if len(got) != 2 {
		t.Errorf("Expected 2 sessions for op1, got %d", len(got))
	}
	if len(store.GetByOperator("op3")) != 0 {
		t.Error("Expected no sessions for unknown operator")
	}
}

func TestStoreDraftLifecycle(t *testing.T) {
	store := newTestStore(0)
	sess := newTestSession("s1", "op1")
	sess.Record[model.KeyCaller] = "田中"
	store.Save(sess)

	if !store.OpenDraft("s1") {
		t.Fatal("Expected OpenDraft to succeed")
	}
	if store.OpenDraft("s1") {
		t.Error("Expected second OpenDraft to fail while a draft is open")
	}

	// Draft is a snapshot, not a reference.
	draft := store.Get("s1").Draft
	if draft[model.KeyCaller] != "田中" {
		t.Errorf("Draft caller = %q, want snapshot of committed value", draft[model.KeyCaller])
	}
	edited := draft.Clone()
	edited[model.KeyCaller] = "鈴木"
	if !store.UpdateDraft("s1", edited) {
		t.Fatal("Expected UpdateDraft to succeed")
	}
	if got := store.Get("s1").Record[model.KeyCaller]; got != "田中" {
		t.Errorf("Committed record changed before commit: %q", got)
	}

	if !store.CommitDraft("s1") {
		t.Fatal("Expected CommitDraft to succeed")
	}
	if got := store.Get("s1").Record[model.KeyCaller]; got != "鈴木" {
		t.Errorf("Committed caller = %q, want 鈴木", got)
	}
	if store.Get("s1").Draft != nil {
		t.Error("Expected draft cleared after commit")
	}
	if store.CommitDraft("s1") {
		t.Error("Expected CommitDraft to fail with no open draft")
	}
}

func TestStoreDiscardDraft(t *testing.T) {
	store := newTestStore(0)
	sess := newTestSession("s1", "op1")
	sess.Record[model.KeyCaller] = "田中"
	store.Save(sess)

	store.OpenDraft("s1")
	edited := store.Get("s1").Draft.Clone()
	edited[model.KeyCaller] = "鈴木"
	store.UpdateDraft("s1", edited)

	if !store.DiscardDraft("s1") {
		t.Fatal("Expected DiscardDraft to succeed")
	}
	if got := store.Get("s1").Record[model.KeyCaller]; got != "田中" {
		t.Errorf("Committed caller = %q, want original after discard", got)
	}
	if store.DiscardDraft("s1") {
		t.Error("Expected DiscardDraft to fail with no open draft")
	}
}

func TestStoreUpdateRecord(t *testing.T) {
	store := newTestStore(0)
	store.Save(newTestSession("s1", "op1"))

	rec := model.NewRecord()
	rec[model.KeyCaller] = "高橋"
	store.UpdateRecord("s1", rec)

	if got := store.Get("s1").Record[model.KeyCaller]; got != "高橋" {
		t.Errorf("caller = %q, want 高橋", got)
	}
}

func TestStoreCleanup(t *testing.T) {
	store := newTestStore(3)

	for i := 0; i < 5; i++ {
		sess := newTestSession("s"+strconv.Itoa(i), "op1")
		sess.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		store.Save(sess)
	}

	if store.Count() != 3 {
		t.Errorf("Expected 3 sessions after cleanup, got %d", store.Count())
	}
	// Oldest sessions go first.
	if store.Get("s0") != nil || store.Get("s1") != nil {
		t.Error("Expected oldest sessions to be cleaned up")
	}
	if store.Get("s4") == nil {
		t.Error("Expected newest session to survive")
	}
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(0)
	store.Save(newTestSession("s1", "op1"))
	store.Delete("s1")
	if store.Get("s1") != nil {
		t.Error("Expected session deleted")
	}
}
