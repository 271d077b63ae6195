package notification

import (
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"samovar/internal/dto"
)

// Consumer registers a broker consumer on a queue. The returned cancel
// unregisters it broker-side; without that, an abandoned consumer keeps
// receiving (and stranding) its share of deliveries.
type Consumer interface {
	Consume(queue string) (<-chan amqp.Delivery, func() error, error)
}

type Listener func(Event)

// Hub is the shared subscription manager for the change stream: one
// broker consumer per entity type, started when the first listener
// subscribes and stopped when the last one cancels. Sessions register
// listeners instead of opening their own connections.
type Hub struct {
	consumer Consumer
	logger   *zap.Logger

	mu      sync.Mutex
	streams map[EventType]*stream
}

type stream struct {
	listeners map[int]Listener
	nextID    int
	stop      chan struct{}
	cancel    func() error
}

func NewHub(consumer Consumer, logger *zap.Logger) *Hub {
	return &Hub{
		consumer: consumer,
		logger:   logger,
		streams:  make(map[EventType]*stream),
	}
}

// Subscribe registers a listener for creation events of one entity
// type and returns its cancel function. The first subscriber of a
// type starts the underlying consumer.
func (h *Hub) Subscribe(eventType EventType, listener Listener) (func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.streams[eventType]
	if !ok {
		s = &stream{
			listeners: make(map[int]Listener),
			stop:      make(chan struct{}),
		}

		deliveries, cancelConsumer, err := h.consumer.Consume(queueFor(eventType))
		if err != nil {
			return nil, err
		}
		s.cancel = cancelConsumer

		h.streams[eventType] = s
		go h.consume(eventType, s, deliveries)
	}

	id := s.nextID
	s.nextID++
	s.listeners[id] = listener

	return func() { h.unsubscribe(eventType, id) }, nil
}

func (h *Hub) unsubscribe(eventType EventType, id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.streams[eventType]
	if !ok {
		return
	}

	delete(s.listeners, id)
	if len(s.listeners) == 0 {
		// Unregister broker-side before stopping the dispatch loop, so
		// the broker stops routing deliveries to this consumer instead
		// of stranding them unacked.
		if s.cancel != nil {
			if err := s.cancel(); err != nil {
				h.logger.Warn("failed to cancel change-stream consumer",
					zap.String("type", string(eventType)), zap.Error(err))
			}
		}
		close(s.stop)
		delete(h.streams, eventType)
	}
}

func (h *Hub) consume(eventType EventType, s *stream, deliveries <-chan amqp.Delivery) {
	h.logger.Info("change-stream consumer started", zap.String("type", string(eventType)))

	for {
		select {
		case <-s.stop:
			h.logger.Info("change-stream consumer stopped", zap.String("type", string(eventType)))
			return
		case msg, ok := <-deliveries:
			if !ok {
				// Dropped subscription: degrade silently, no backfill.
				h.logger.Warn("change stream closed", zap.String("type", string(eventType)))
				return
			}

			event, err := decodeEvent(eventType, msg.Body)
			if err != nil {
				h.logger.Warn("discarding malformed change event",
					zap.String("type", string(eventType)), zap.Error(err))
				msg.Ack(false)
				continue
			}

			h.dispatch(eventType, event)
			msg.Ack(false)
		}
	}
}

func (h *Hub) dispatch(eventType EventType, event Event) {
	h.mu.Lock()
	s, ok := h.streams[eventType]
	if !ok {
		h.mu.Unlock()
		return
	}
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	h.mu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

func queueFor(eventType EventType) string {
	if eventType == EventMessage {
		return dto.MessagesQueue
	}
	return dto.OrdersQueue
}

func decodeEvent(eventType EventType, body []byte) (Event, error) {
	if eventType == EventMessage {
		return decodeMessageEvent(body)
	}
	return decodeOrderEvent(body)
}
