package notice

import (
	"time"

	"github.com/turtacn/TimebarKeeper/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Case entity
// ─────────────────────────────────────────────────────────────────────────────

// Case is the claim file a set of notices is tracked against.  Only the
// fields the scheduler reads are modeled here; the wider claims system owns
// the rest of the case record.
type Case struct {
	ID    int64 `json:"id"`
	OrgID int64 `json:"org_id"`

	// Reference is the organization's own case reference (e.g. a voyage or
	// fixture number).
	Reference string `json:"reference"`

	// VoyageEndDate anchors every timebar on the case.  It is nil until the
	// voyage completes; while nil, no expiry can be computed.
	VoyageEndDate *time.Time `json:"voyage_end_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasVoyageEndDate reports whether a timebar can be computed for this case.
func (c *Case) HasVoyageEndDate() bool {
	return c.VoyageEndDate != nil && !c.VoyageEndDate.IsZero()
}

// ─────────────────────────────────────────────────────────────────────────────
// CaseNotice entity
// ─────────────────────────────────────────────────────────────────────────────

// CaseNotice attaches one notice type to one case.  The timebar duration is
// snapshotted at attach time so that later edits to the catalog entry do not
// silently move expiries on existing cases.
type CaseNotice struct {
	ID           int64 `json:"id"`
	CaseID       int64 `json:"case_id"`
	NoticeTypeID int64 `json:"notice_type_id"`

	// TimebarDaysSnapshot is the timebar duration copied from the notice type
	// when the attachment was created or last recalculated against the catalog.
	TimebarDaysSnapshot int `json:"timebar_days_snapshot"`

	// ReminderOffsetsSnapshot is the offsets string resolved at attach time
	// (notice type offsets, falling back to the org default, falling back to
	// the built-in default).  Reconciliation parses this snapshot, never the
	// live catalog.
	ReminderOffsetsSnapshot string `json:"reminder_offsets_snapshot"`

	// Enabled controls whether reminders are scheduled for this attachment.
	// Disabling dismisses open reminders without deleting history.
	Enabled bool `json:"enabled"`

	// ExpiryDate is the computed timebar expiry, nil while the case has no
	// voyage end date.
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCaseNotice creates an enabled attachment with the rule snapshot taken
// from the given notice type.  offsetsText must already be resolved through
// the fallback chain (see ResolveOffsetsText).
func NewCaseNotice(caseID int64, nt *NoticeType, offsetsText string) (*CaseNotice, error) {
	if nt == nil {
		return nil, errors.New(errors.ErrCodeNoticeTypeNotFound, "notice type is required")
	}
	if !nt.Active {
		return nil, errors.New(errors.ErrCodeNoticeTypeInactive, "notice type is inactive")
	}
	return &CaseNotice{
		CaseID:                  caseID,
		NoticeTypeID:            nt.ID,
		TimebarDaysSnapshot:     nt.TimebarDays,
		ReminderOffsetsSnapshot: offsetsText,
		Enabled:                 true,
	}, nil
}

// RefreshSnapshot re-copies the rule snapshot from the catalog entry.
// Used by explicit attach/update, never by routine reconciliation.
func (cn *CaseNotice) RefreshSnapshot(timebarDays int, offsetsText string) {
	cn.TimebarDaysSnapshot = timebarDays
	cn.ReminderOffsetsSnapshot = offsetsText
}

// ─────────────────────────────────────────────────────────────────────────────
// Timebar date arithmetic
// ─────────────────────────────────────────────────────────────────────────────

// Midnight normalizes t to 00:00:00 UTC on the same calendar date.  All
// timebar arithmetic is calendar-day based; time-of-day must never influence
// an expiry.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ComputeExpiry returns the timebar expiry for a voyage that ended on
// voyageEnd with the given timebar duration: midnight of the voyage end date
// plus timebarDays calendar days.  A voyage ending 2025-01-10 with a 21-day
// timebar expires 2025-01-31.
func ComputeExpiry(voyageEnd time.Time, timebarDays int) time.Time {
	return Midnight(voyageEnd).AddDate(0, 0, timebarDays)
}

// ReminderDueDate returns the date a reminder with the given offset falls on:
// offset days before the expiry.
func ReminderDueDate(expiry time.Time, offset int) time.Time {
	return Midnight(expiry).AddDate(0, 0, -offset)
}

// ComputeExpiryFor evaluates the expiry for this attachment against its case.
// It returns nil when the case has no voyage end date.
func (cn *CaseNotice) ComputeExpiryFor(c *Case) *time.Time {
	if c == nil || !c.HasVoyageEndDate() {
		return nil
	}
	expiry := ComputeExpiry(*c.VoyageEndDate, cn.TimebarDaysSnapshot)
	return &expiry
}

//Personal.AI order the ending
