package events

import (
	"context"
	"delivery-assign-service/internal/platform/obs"
	"delivery-assign-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	Exchange             = "assignments_topic"
	RunCompletedKey      = "assignment.run.completed"
	defaultPublishTimeout = 5 * time.Second
)

// RunCompletedMessage is the body published after a run is stored.
type RunCompletedMessage struct {
	RunID      string           `json:"run_id"`
	CreatedAt  time.Time        `json:"created_at"`
	SourceName string           `json:"source_name"`
	Summary    ports.RunSummary `json:"summary"`
}

func NewRunCompletedMessage(run *ports.AssignmentRun) RunCompletedMessage {
	return RunCompletedMessage{
		RunID:      run.ID,
		CreatedAt:  run.CreatedAt,
		SourceName: run.SourceName,
		Summary:    run.Summary,
	}
}

// RabbitPublisher publishes run events to a durable topic exchange and waits
// for the broker's publisher confirm.
type RabbitPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	acks <-chan amqp.Confirmation
	mu   sync.Mutex
}

func NewRabbitPublisher(url string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: declare exchange %q: %w", Exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: enable confirms: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	return &RabbitPublisher{conn: conn, ch: ch, acks: acks}, nil
}

func (p *RabbitPublisher) PublishRunCompleted(ctx context.Context, run *ports.AssignmentRun) (err error) {
	defer obs.Time(ctx, "events.rabbitmq.PublishRunCompleted")(&err)

	if run == nil {
		return errors.New("publish run completed: run is nil")
	}

	body, err := json.Marshal(NewRunCompletedMessage(run))
	if err != nil {
		return fmt.Errorf("publish run completed: marshal: %w", err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultPublishTimeout)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(
		ctx,
		Exchange,
		RunCompletedKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode:  amqp.Persistent,
			ContentType:   "application/json",
			MessageId:     run.ID,
			CorrelationId: obs.RequestID(ctx),
			Timestamp:     time.Now().UTC(),
			Headers:       amqp.Table{"x-source": "delivery-assign-service"},
			Body:          body,
		},
	); err != nil {
		return fmt.Errorf("publish run completed: run_id=%s: %w", run.ID, err)
	}

	select {
	case conf := <-p.acks:
		if conf.Ack {
			return nil
		}
		return fmt.Errorf("publish run completed: run_id=%s: broker NACK", run.ID)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *RabbitPublisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// NoopPublisher drops events; used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishRunCompleted(context.Context, *ports.AssignmentRun) error { return nil }
