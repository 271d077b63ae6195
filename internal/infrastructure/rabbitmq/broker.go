package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Broker wraps one AMQP connection and channel. Each creation-event
// stream is a durable fanout exchange with a durable bound queue.
type Broker struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func Connect(url string) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	return &Broker{conn: conn, channel: channel}, nil
}

// DeclareFanout declares a fanout exchange and binds a durable queue
// to it. Idempotent on the broker side.
func (b *Broker) DeclareFanout(exchange, queue string) error {
	err := b.channel.ExchangeDeclare(
		exchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declaring exchange %s: %w", exchange, err)
	}

	q, err := b.channel.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declaring queue %s: %w", queue, err)
	}

	if err := b.channel.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		return fmt.Errorf("binding queue %s to %s: %w", queue, exchange, err)
	}

	return nil
}

func (b *Broker) Publish(ctx context.Context, exchange string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := b.channel.PublishWithContext(ctx,
		exchange,
		"", // fanout ignores routing keys
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", exchange, err)
	}
	return nil
}

// Consume registers a tagged consumer on the queue. The returned
// cancel unregisters it broker-side; leaving it registered would keep
// the broker round-robining deliveries to a consumer nobody drains.
func (b *Broker) Consume(queue string) (<-chan amqp.Delivery, func() error, error) {
	tag := uuid.NewString()

	deliveries, err := b.channel.Consume(
		queue,
		tag,
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("consuming from %s: %w", queue, err)
	}

	cancel := func() error {
		return b.channel.Cancel(tag, false)
	}
	return deliveries, cancel, nil
}

func (b *Broker) Close() {
	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		b.conn.Close()
	}
}
