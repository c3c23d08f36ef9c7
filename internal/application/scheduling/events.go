package scheduling

import (
	"context"
	"time"
)

// CaseReconciledEvent is emitted after a reconciliation transaction commits.
type CaseReconciledEvent struct {
	CaseID    int64  `json:"case_id"`
	OrgID     int64  `json:"org_id"`
	Scheduled int    `json:"scheduled"`
	Reason    string `json:"reason,omitempty"`
}

// NoticeAttachedEvent is emitted after a notice type is attached to a case.
type NoticeAttachedEvent struct {
	CaseID       int64 `json:"case_id"`
	OrgID        int64 `json:"org_id"`
	NoticeTypeID int64 `json:"notice_type_id"`
	CaseNoticeID int64 `json:"case_notice_id"`
}

// ReminderScheduledEvent is emitted once per reminder todo newly inserted by
// a reconciliation run.  Refreshes of already-open reminders do not emit.
type ReminderScheduledEvent struct {
	CaseID       int64     `json:"case_id"`
	OrgID        int64     `json:"org_id"`
	CaseNoticeID int64     `json:"case_notice_id"`
	TodoID       int64     `json:"todo_id"`
	OffsetDays   int       `json:"offset_days"`
	DueDate      time.Time `json:"due_date"`
}

// NoticeRemovedEvent is emitted after a case notice is deleted.
type NoticeRemovedEvent struct {
	CaseID       int64 `json:"case_id"`
	CaseNoticeID int64 `json:"case_notice_id"`
}

// EventPublisher pushes scheduling events to downstream consumers (audit
// trails, notification pipelines).  Publication is best-effort and happens
// after commit: a publish failure is logged, never propagated, and must not
// roll anything back.
type EventPublisher interface {
	PublishCaseReconciled(ctx context.Context, ev CaseReconciledEvent) error
	PublishNoticeAttached(ctx context.Context, ev NoticeAttachedEvent) error
	PublishNoticeRemoved(ctx context.Context, ev NoticeRemovedEvent) error
	PublishReminderScheduled(ctx context.Context, ev ReminderScheduledEvent) error
}

//Personal.AI order the ending
