package scheduling

import (
	"context"

	"github.com/turtacn/TimebarKeeper/internal/domain/notice"
	"github.com/turtacn/TimebarKeeper/internal/domain/todo"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TimebarKeeper/pkg/errors"
)

// ReasonVoyageEndMissing is reported when reconciliation is gated by an
// unset voyage end date.
const ReasonVoyageEndMissing = "voyage end date missing"

// ReconcileResult is the outcome contract of one reconciliation run.
type ReconcileResult struct {
	OK bool `json:"ok"`

	// Scheduled counts newly inserted reminder todos.  In-place updates of
	// existing open reminders do not count.
	Scheduled int `json:"scheduled"`

	// Reason explains a zero-schedule outcome (only the voyage-end gate
	// sets it).
	Reason string `json:"reason,omitempty"`

	// NewReminders describes the reminders counted by Scheduled, for
	// post-commit event publication.  Not part of the API response.
	NewReminders []ReminderScheduledEvent `json:"-"`
}

// Reconciler recomputes expiry dates and reminder todos for one case so that
// stored state matches the case's voyage end date and notice configuration.
// It is stateless; all state lives in the Store passed per call.
type Reconciler struct {
	log logging.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(log logging.Logger) *Reconciler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Reconciler{log: log.Named("reconciler")}
}

// Reconcile runs the full reconciliation algorithm for caseID against the
// given (transaction-bound) store.  The caller owns the transaction
// boundary; Reconcile never commits or rolls back itself.
//
// The algorithm:
//
//  1. If the case has no voyage end date: ensure one open gate todo,
//     dismiss every open reminder, null all expiries, and stop.
//  2. Otherwise dismiss the gate todo and, per case notice: dismiss
//     reminders of disabled notices; for enabled notices persist the
//     computed expiry and upsert one open reminder per offset, keyed by
//     the (case notice, offset) dedup key.  Reminders whose offset was
//     removed from the snapshot are dismissed.
func (r *Reconciler) Reconcile(ctx context.Context, st Store, caseID int64) (*ReconcileResult, error) {
	c, err := st.Cases().GetByID(ctx, caseID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.New(errors.ErrCodeCaseNotFound, "case not found").
				WithCause(err)
		}
		return nil, errors.Wrap(err, errors.ErrCodeReconcileFailed, "failed to load case")
	}

	if !c.HasVoyageEndDate() {
		if err := r.applyVoyageEndGate(ctx, st, caseID); err != nil {
			return nil, err
		}
		r.log.Info("reconciliation gated on missing voyage end date",
			logging.Int64("case_id", caseID))
		return &ReconcileResult{OK: true, Scheduled: 0, Reason: ReasonVoyageEndMissing}, nil
	}

	// The condition that created the gate todo no longer holds.
	if _, err := st.Todos().DismissOpenByCaseAndType(ctx, caseID, todo.TypeMissingVoyageEndDate); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeReconcileFailed, "failed to dismiss voyage end gate todo")
	}

	notices, err := st.CaseNotices().ListByCaseWithType(ctx, caseID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeReconcileFailed, "failed to load case notices")
	}

	var newReminders []ReminderScheduledEvent
	for _, n := range notices {
		inserted, err := r.reconcileNotice(ctx, st, c, n)
		if err != nil {
			return nil, err
		}
		newReminders = append(newReminders, inserted...)
	}

	r.log.Info("reconciliation complete",
		logging.Int64("case_id", caseID),
		logging.Int("notices", len(notices)),
		logging.Int("scheduled", len(newReminders)))

	return &ReconcileResult{OK: true, Scheduled: len(newReminders), NewReminders: newReminders}, nil
}

// applyVoyageEndGate puts the case into the gated state: one open gate todo,
// no open reminders, no expiries.
func (r *Reconciler) applyVoyageEndGate(ctx context.Context, st Store, caseID int64) error {
	_, err := st.Todos().FindOpenByMetaKey(ctx, caseID, todo.TypeMissingVoyageEndDate, todo.MissingVoyageEndMetaKey)
	if err != nil {
		if !errors.IsNotFound(err) {
			return errors.Wrap(err, errors.ErrCodeReconcileFailed, "failed to look up voyage end gate todo")
		}
		if err := st.Todos().Create(ctx, todo.NewMissingVoyageEndGate(caseID)); err != nil {
			return errors.Wrap(err, errors.ErrCodeReconcileFailed, "failed to create voyage end gate todo")
		}
	}

	if _, err := st.Todos().DismissOpenByCaseAndType(ctx, caseID, todo.TypeTimebarReminder); err != nil {
		return errors.Wrap(err, errors.ErrCodeReconcileFailed, "failed to dismiss reminder todos")
	}

	if err := st.CaseNotices().ClearExpiryByCase(ctx, caseID); err != nil {
		return errors.Wrap(err, errors.ErrCodeReconcileFailed, "failed to clear expiry dates")
	}
	return nil
}

// reconcileNotice handles one case notice and returns a descriptor per
// reminder todo newly inserted for it.
func (r *Reconciler) reconcileNotice(ctx context.Context, st Store, c *notice.Case, n *notice.CaseNoticeWithType) ([]ReminderScheduledEvent, error) {
	if !n.Enabled {
		// Disabling stops reminder generation but leaves the last computed
		// expiry in place.
		if _, err := st.Todos().DismissOpenByRelatedEntity(ctx, todo.RelatedEntityCaseNotice, n.ID); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeReconcileFailed, "failed to dismiss reminders of disabled notice")
		}
		return nil, nil
	}

	expiry := notice.ComputeExpiry(*c.VoyageEndDate, n.TimebarDaysSnapshot)
	if err := st.CaseNotices().SetExpiry(ctx, n.ID, &expiry); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeReconcileFailed, "failed to persist expiry date")
	}

	offsets := notice.ParseOffsets(n.ReminderOffsetsSnapshot)
	keep := make([]string, 0, len(offsets))
	var inserted []ReminderScheduledEvent

	for _, off := range offsets {
		due := notice.ReminderDueDate(expiry, off)
		title := todo.ReminderTitle(n.NoticeTypeName, off, expiry)
		metaKey := todo.ReminderMetaKey(n.ID, off)
		keep = append(keep, metaKey)

		touched, err := st.Todos().UpdateOpenByMetaKey(ctx, c.ID, todo.TypeTimebarReminder, metaKey, &due, title, n.TemplateID)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeReconcileFailed, "failed to refresh reminder todo")
		}
		if touched > 0 {
			continue
		}

		reminder := todo.NewReminder(c.ID, n.ID, n.NoticeTypeName, off, expiry, n.TemplateID)
		if err := st.Todos().Create(ctx, reminder); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeReconcileFailed, "failed to create reminder todo")
		}
		inserted = append(inserted, ReminderScheduledEvent{
			CaseID:       c.ID,
			CaseNoticeID: n.ID,
			TodoID:       reminder.ID,
			OffsetDays:   off,
			DueDate:      due,
		})
	}

	// Offsets removed from the snapshot leave stale open reminders behind;
	// dismiss them so the open set always mirrors the configuration.
	if _, err := st.Todos().DismissOpenRemindersNotIn(ctx, n.ID, keep); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeReconcileFailed, "failed to prune stale reminder todos")
	}

	return inserted, nil
}

//Personal.AI order the ending
