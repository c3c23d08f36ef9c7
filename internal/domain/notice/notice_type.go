// Package notice defines the timebar notice domain: notice type catalogs,
// per-case notice attachments, organization-level reminder defaults, and the
// date arithmetic that turns a voyage end date into a timebar expiry.
package notice

import (
	"fmt"
	"time"

	"github.com/turtacn/TimebarKeeper/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// NoticeType entity
// ─────────────────────────────────────────────────────────────────────────────

// NoticeType is a catalog entry describing one kind of contractual notice an
// organization must serve before a timebar expires (e.g. "Notice of Readiness
// claim", "Demurrage claim").
type NoticeType struct {
	// ID uniquely identifies this notice type.
	ID int64 `json:"id"`

	// OrgID scopes the notice type to one organization.
	OrgID int64 `json:"org_id"`

	// Name is the human-readable label used in reminder todo titles.
	Name string `json:"name"`

	// TimebarDays is the number of calendar days after the voyage end date at
	// which the right to claim expires.
	TimebarDays int `json:"timebar_days"`

	// ReminderOffsets is an optional comma-separated list of day offsets before
	// expiry at which reminders should be raised (e.g. "30,15,5").  When empty,
	// the organization default applies.
	ReminderOffsets string `json:"reminder_offsets"`

	// TemplateID optionally references the document template used to draft
	// the notice.  Carried onto reminder todos so the UI can offer a
	// one-click draft.
	TemplateID *int64 `json:"template_id,omitempty"`

	// Active controls whether the notice type can be attached to new cases.
	// Inactive types remain attached to existing cases.
	Active bool `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNoticeType creates a NoticeType with validation.
//
// Business rules:
//   - Name must not be empty
//   - TimebarDays must be non-negative
func NewNoticeType(orgID int64, name string, timebarDays int, reminderOffsets string) (*NoticeType, error) {
	if name == "" {
		return nil, errors.InvalidParam("name must not be empty")
	}
	if timebarDays < 0 {
		return nil, errors.New(errors.ErrCodeTimebarDaysInvalid,
			fmt.Sprintf("timebar_days must be non-negative, got %d", timebarDays))
	}

	return &NoticeType{
		OrgID:           orgID,
		Name:            name,
		TimebarDays:     timebarDays,
		ReminderOffsets: reminderOffsets,
		Active:          true,
	}, nil
}

// Validate re-checks the invariants after mutation (e.g. an update request).
func (nt *NoticeType) Validate() error {
	if nt.Name == "" {
		return errors.InvalidParam("name must not be empty")
	}
	if nt.TimebarDays < 0 {
		return errors.New(errors.ErrCodeTimebarDaysInvalid,
			fmt.Sprintf("timebar_days must be non-negative, got %d", nt.TimebarDays))
	}
	return nil
}

// Deactivate marks the notice type as retired.  Existing case attachments are
// unaffected; only new attachments are blocked.
func (nt *NoticeType) Deactivate() {
	nt.Active = false
}

// ─────────────────────────────────────────────────────────────────────────────
// OrgSettings entity
// ─────────────────────────────────────────────────────────────────────────────

// OrgSettings carries organization-wide scheduling defaults.
type OrgSettings struct {
	OrgID int64 `json:"org_id"`

	// DefaultReminderOffsets is the fallback offsets string applied when a
	// notice type does not define its own.
	DefaultReminderOffsets string `json:"default_reminder_offsets"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

//Personal.AI order the ending
