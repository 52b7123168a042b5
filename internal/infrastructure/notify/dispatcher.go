package notify

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/servibook/booking-platform/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Event is a single outbound notification.
type Event struct {
	Name    string
	Payload map[string]any
}

// Sender delivers a notification to its channel (email, SMS). Delivery is
// best-effort; errors are logged by the dispatcher.
type Sender interface {
	Send(ctx context.Context, event string, payload map[string]any) error
}

// DedupChecker suppresses repeated deliveries of the same booking event.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, bookingID, event string) (bool, error)
	Mark(ctx context.Context, bookingID, event string) error
}

// Dispatcher routes notifications to a fixed set of workers using
// consistent hashing on the booking ID, guaranteeing per-booking delivery
// ordering. Notify never blocks the originating request beyond the channel
// buffer.
type Dispatcher struct {
	workers []chan Event
	sender  Sender
	dedup   DedupChecker
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. dedup may be nil.
func NewDispatcher(numWorkers int, sender Sender, dedup DedupChecker, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Event, numWorkers),
		sender:  sender,
		dedup:   dedup,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Event, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Notify implements ports.Notifier: fire-and-forget enqueue.
func (d *Dispatcher) Notify(_ context.Context, event string, payload map[string]any) {
	d.workers[d.shardIndex(bookingID(payload))] <- Event{Name: event, Payload: payload}
}

// shardIndex maps a booking ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(bookingID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(bookingID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.deliver(ctx, id, event)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, event Event) {
	bid := bookingID(event.Payload)

	if d.dedup != nil && bid != "" {
		isDup, err := d.dedup.IsDuplicate(ctx, bid, event.Name)
		if err != nil {
			d.log.Warn().Err(err).Str("event", event.Name).Msg("dedup check failed, sending anyway")
		} else if isDup {
			metrics.NotificationsDedupTotal.Inc()
			d.log.Debug().Str("event", event.Name).Str("booking_id", bid).Msg("duplicate notification skipped")
			return
		}
	}

	if err := d.sender.Send(ctx, event.Name, event.Payload); err != nil {
		metrics.NotificationsErrorsTotal.Inc()
		d.log.Error().Err(err).
			Str("event", event.Name).
			Str("booking_id", bid).
			Int("worker_id", workerID).
			Msg("notification delivery failed")
		return
	}
	metrics.NotificationsSentTotal.WithLabelValues(event.Name).Inc()

	if d.dedup != nil && bid != "" {
		if err := d.dedup.Mark(ctx, bid, event.Name); err != nil {
			d.log.Warn().Err(err).Str("event", event.Name).Msg("failed to set dedup key")
		}
	}
}

func bookingID(payload map[string]any) string {
	id, _ := payload["booking_id"].(string)
	return id
}

// LogSender writes notifications to the structured log. Stands in for a
// real email/SMS gateway.
type LogSender struct {
	Log zerolog.Logger
}

func (s LogSender) Send(_ context.Context, event string, payload map[string]any) error {
	s.Log.Info().Str("event", event).Fields(payload).Msg("notification dispatched")
	return nil
}

var _ Sender = LogSender{}
