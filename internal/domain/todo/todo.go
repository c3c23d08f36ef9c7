// Package todo defines the case todo domain: dismissible units of pending
// work surfaced per case, with the stable dedup keys the timebar reconciler
// relies on for idempotence.
package todo

import (
	"fmt"
	"time"

	"github.com/turtacn/TimebarKeeper/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Type and Status enumerations
// ─────────────────────────────────────────────────────────────────────────────

// Type tags the kind of work a todo represents.
type Type string

const (
	// TypeTimebarReminder is a reminder to send a notice before its timebar
	// expires.  One open instance per (case notice, offset) pair.
	TypeTimebarReminder Type = "TIMEBAR_REMINDER"

	// TypeMissingVoyageEndDate gates timebar scheduling: one open instance
	// per case while the voyage end date is unset.
	TypeMissingVoyageEndDate Type = "MISSING_VOYAGE_END_DATE"
)

// Status is the lifecycle state of a todo.  Todos are never hard-deleted;
// they transition to dismissed when no longer applicable.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusDismissed Status = "DISMISSED"
)

// ValidStatus reports whether s is a recognized status value.
func ValidStatus(s Status) bool {
	return s == StatusOpen || s == StatusDismissed
}

// ParseStatus validates a raw status string (case-sensitive, upper-case).
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !ValidStatus(s) {
		return "", errors.New(errors.ErrCodeTodoStatusInvalid,
			fmt.Sprintf("invalid todo status %q", raw))
	}
	return s, nil
}

// RelatedEntityCaseNotice is the related-entity tag for todos spawned by a
// case notice.
const RelatedEntityCaseNotice = "CaseNotice"

// ─────────────────────────────────────────────────────────────────────────────
// Todo entity
// ─────────────────────────────────────────────────────────────────────────────

// Todo is one dismissible unit of pending work attached to a case.
type Todo struct {
	ID     int64 `json:"id"`
	CaseID int64 `json:"case_id"`

	Type  Type   `json:"type"`
	Title string `json:"title"`

	// DueDate is nil for gate todos; reminder todos carry the computed
	// reminder date.  Null due dates sort last in listings.
	DueDate *time.Time `json:"due_date,omitempty"`

	Status Status `json:"status"`

	// RelatedEntityType and RelatedEntityID back-reference the record that
	// spawned this todo (RelatedEntityCaseNotice for reminders).
	RelatedEntityType string `json:"related_entity_type,omitempty"`
	RelatedEntityID   *int64 `json:"related_entity_id,omitempty"`

	// TemplateID is carried from the notice type so the UI can offer a
	// one-click draft of the notice.
	TemplateID *int64 `json:"template_id,omitempty"`

	// MetaKey is the stable dedup key; at most one OPEN todo exists per
	// (case, type, MetaKey).
	MetaKey string `json:"meta_key"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Dismiss transitions the todo out of the open state.
func (t *Todo) Dismiss() {
	t.Status = StatusDismissed
}

// IsOpen reports whether the todo still demands attention.
func (t *Todo) IsOpen() bool {
	return t.Status == StatusOpen
}

// ─────────────────────────────────────────────────────────────────────────────
// Dedup keys and titles
// ─────────────────────────────────────────────────────────────────────────────

// MissingVoyageEndMetaKey is the dedup key of the voyage-end gate todo.
const MissingVoyageEndMetaKey = "MISSING_VOYAGE_END_DATE"

// MissingVoyageEndTitle is the title of the voyage-end gate todo.
const MissingVoyageEndTitle = "Voyage End Date is empty - timebar reminders can't be scheduled"

// ReminderMetaKey builds the dedup key for a (case notice, offset) reminder.
func ReminderMetaKey(caseNoticeID int64, offset int) string {
	return fmt.Sprintf("TIMEBAR:%d:OFFSET:%d", caseNoticeID, offset)
}

// ReminderTitle builds the human-readable reminder title.  The expiry is
// rendered as an ISO calendar date.
func ReminderTitle(noticeName string, offset int, expiry time.Time) string {
	return fmt.Sprintf("Send %s - %d days before timebar (expires %s)",
		noticeName, offset, expiry.Format("2006-01-02"))
}

// NewReminder builds an OPEN reminder todo for one (case notice, offset)
// pair.
func NewReminder(caseID, caseNoticeID int64, noticeName string, offset int, expiry time.Time, templateID *int64) *Todo {
	due := expiry.AddDate(0, 0, -offset)
	return &Todo{
		CaseID:            caseID,
		Type:              TypeTimebarReminder,
		Title:             ReminderTitle(noticeName, offset, expiry),
		DueDate:           &due,
		Status:            StatusOpen,
		RelatedEntityType: RelatedEntityCaseNotice,
		RelatedEntityID:   &caseNoticeID,
		TemplateID:        templateID,
		MetaKey:           ReminderMetaKey(caseNoticeID, offset),
	}
}

// NewMissingVoyageEndGate builds the OPEN gate todo for a case without a
// voyage end date.
func NewMissingVoyageEndGate(caseID int64) *Todo {
	return &Todo{
		CaseID:  caseID,
		Type:    TypeMissingVoyageEndDate,
		Title:   MissingVoyageEndTitle,
		Status:  StatusOpen,
		MetaKey: MissingVoyageEndMetaKey,
	}
}

//Personal.AI order the ending
