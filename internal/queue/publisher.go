package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/parking-slot-reservation/internal/model"
)

const reservationPaidQueue = "reservation.paid"

// Publisher emits domain events to RabbitMQ. A nil or empty URL
// disables publishing. Errors are logged and returned so callers can
// ignore failures without interrupting the main request flow.
type Publisher struct {
	url string
}

// NewPublisher returns a publisher targeting the broker at url.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// ReservationPaid publishes a ReservationPaidEvent to the
// "reservation.paid" queue. The function attempts to be robust and
// to never panic; any error is logged and returned so the caller can
// choose to ignore it. Messages are marked as persistent.
func (p *Publisher) ReservationPaid(ctx context.Context, res *model.Reservation) error {
	ev := ReservationPaidEvent{
		ReservationID: res.ID,
		UserID:        res.UserID,
		SlotID:        res.SlotID,
		StartTime:     res.StartTime.UTC().Format(time.RFC3339),
		EndTime:       res.EndTime.UTC().Format(time.RFC3339),
		Amount:        res.Amount,
		PaidAt:        time.Now().UTC().Format(time.RFC3339),
	}
	if res.OrderRef != nil {
		ev.OrderRef = *res.OrderRef
	}
	if res.PaymentRef != nil {
		ev.PaymentRef = *res.PaymentRef
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		reservationPaidQueue, // name
		true,                 // durable
		false,                // autoDelete
		false,                // exclusive
		false,                // noWait
		nil,                  // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                   // default exchange
		reservationPaidQueue, // routing key = queue name
		false,                // mandatory
		false,                // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
