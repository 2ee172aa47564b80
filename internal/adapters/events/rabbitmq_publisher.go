package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RoutingKeyTripPlanned is the routing key of trip planned events.
const RoutingKeyTripPlanned = "trip.planned"

// TripPlannedEvent is the JSON body published for every persisted trip.
type TripPlannedEvent struct {
	TripID             string    `json:"trip_id"`
	PlannedAt          time.Time `json:"planned_at"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	TotalDistanceMiles float64   `json:"total_distance_miles"`
	DayCount           int       `json:"day_count"`
	Warnings           []string  `json:"warnings"`
}

// NewTripPlannedEvent summarizes plan for downstream consumers.
func NewTripPlannedEvent(plan *domain.TripPlan) TripPlannedEvent {
	evt := TripPlannedEvent{
		TripID:    plan.ID,
		PlannedAt: plan.CreatedAt,
		StartTime: plan.StartTime,
		DayCount:  len(plan.DailyLogs),
		Warnings:  plan.Warnings,
	}
	if evt.Warnings == nil {
		evt.Warnings = []string{}
	}
	if n := len(plan.Segments); n > 0 {
		evt.EndTime = plan.Segments[n-1].End
	}
	if plan.Route != nil {
		evt.TotalDistanceMiles = plan.Route.TotalDistanceMiles
	}
	return evt
}

// RabbitMQPublisher publishes trip events to a durable topic exchange
// with publisher confirms.
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	confirms chan amqp.Confirmation

	mu sync.Mutex
}

// NewRabbitMQPublisher dials url and declares exchange.
func NewRabbitMQPublisher(url, exchange string) (*RabbitMQPublisher, error) {
	if exchange == "" {
		return nil, errors.New("rabbitmq: exchange must not be empty")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq: declare exchange %q: %w", exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq: enable confirms: %w", err)
	}

	return &RabbitMQPublisher{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

// PublishTripPlanned publishes a TripPlannedEvent and waits for the broker ack.
func (p *RabbitMQPublisher) PublishTripPlanned(ctx context.Context, plan *domain.TripPlan) (err error) {
	defer obs.Time(ctx, "events.PublishTripPlanned")(&err)

	if plan == nil {
		return errors.New("rabbitmq: plan is nil")
	}

	body, err := json.Marshal(NewTripPlannedEvent(plan))
	if err != nil {
		return fmt.Errorf("rabbitmq: encode event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn.IsClosed() {
		return errors.New("rabbitmq: connection is not open")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.ch.PublishWithContext(ctx, p.exchange, RoutingKeyTripPlanned, false, false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    plan.ID,
			Timestamp:    plan.CreatedAt,
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}

	select {
	case c := <-p.confirms:
		if !c.Ack {
			return errors.New("rabbitmq: publish not acknowledged")
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

// Close shuts down the channel and connection.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return fmt.Errorf("rabbitmq: close channel: %w", err)
	}
	if err := p.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return fmt.Errorf("rabbitmq: close connection: %w", err)
	}
	return nil
}
