package kafka

import (
	"context"
	"strconv"

	"github.com/turtacn/TimebarKeeper/internal/application/scheduling"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
)

const sourceService = "timebarkeeper"

// messageProducer is the slice of Producer the publisher needs.
type messageProducer interface {
	Publish(ctx context.Context, msg *ProducerMessage) error
}

// eventPublisher adapts the Producer to the scheduling engine's publishing
// port.  Messages are keyed by case id so reconciliation events for one case
// stay ordered within a partition.
type eventPublisher struct {
	producer messageProducer
	log      logging.Logger
}

var _ scheduling.EventPublisher = (*eventPublisher)(nil)

// NewEventPublisher wraps a producer as a scheduling.EventPublisher.
func NewEventPublisher(producer messageProducer, log logging.Logger) scheduling.EventPublisher {
	return &eventPublisher{producer: producer, log: log.Named("event_publisher")}
}

func (p *eventPublisher) PublishCaseReconciled(ctx context.Context, ev scheduling.CaseReconciledEvent) error {
	return p.publish(ctx, TopicCaseReconciled, EventTypeCaseReconciled, ev.CaseID, ev)
}

func (p *eventPublisher) PublishNoticeAttached(ctx context.Context, ev scheduling.NoticeAttachedEvent) error {
	return p.publish(ctx, TopicNoticeAttached, EventTypeNoticeAttached, ev.CaseID, ev)
}

func (p *eventPublisher) PublishNoticeRemoved(ctx context.Context, ev scheduling.NoticeRemovedEvent) error {
	return p.publish(ctx, TopicNoticeRemoved, EventTypeNoticeRemoved, ev.CaseID, ev)
}

func (p *eventPublisher) PublishReminderScheduled(ctx context.Context, ev scheduling.ReminderScheduledEvent) error {
	return p.publish(ctx, TopicReminderScheduled, EventTypeReminderScheduled, ev.CaseID, ev)
}

func (p *eventPublisher) publish(ctx context.Context, topic, eventType string, caseID int64, payload interface{}) error {
	envelope, err := NewEventEnvelope(eventType, sourceService, payload)
	if err != nil {
		return err
	}
	msg, err := envelope.ToMessage(topic, strconv.FormatInt(caseID, 10))
	if err != nil {
		return err
	}
	if err := p.producer.Publish(ctx, msg); err != nil {
		return err
	}
	p.log.Debug("event published",
		logging.String("topic", topic),
		logging.String("event_id", envelope.EventID),
		logging.Int64("case_id", caseID))
	return nil
}

//Personal.AI order the ending
