package usecase

import (
	"sync"
	"time"

	"telegram-notify-relay/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ DeliveryGate = (*deliveryGate)(nil)

// DeliveryGate is the single decision point for whether a composed message
// actually goes out to a recipient now. A true result means the caller must
// dispatch; the send is already recorded.
type DeliveryGate interface {
	// ShouldSend reports whether the message may be dispatched to the
	// recipient and, when true, records the send in the recipient's history.
	ShouldSend(recipientID, message string) bool
	// HistoryLen returns how many send records are currently retained for
	// the recipient. Stale records still count until the next ShouldSend.
	HistoryLen(recipientID string) int
	// Reset drops all recorded history.
	Reset()
}

type sendRecord struct {
	message string
	sentAt  time.Time
}

type deliveryGate struct {
	mu        sync.Mutex
	histories map[string][]sendRecord

	// window is how long a past send keeps participating in duplicate and
	// throttle checks. Records strictly older than the window are pruned;
	// a record aged exactly the window is still considered.
	window time.Duration
	// tick is the throttle granularity: at most one send per recipient per
	// tick, regardless of content.
	tick time.Duration

	now func() time.Time
	log *zerolog.Logger
}

const (
	DefaultRetentionWindow = time.Hour
	DefaultThrottleTick    = time.Second
)

// NewDeliveryGate constructs a gate with the given retention window and
// throttle tick. A nil clock defaults to time.Now; tests inject a fake.
func NewDeliveryGate(window, tick time.Duration, clock func() time.Time, logger *zerolog.Logger) *deliveryGate {
	if window <= 0 {
		window = DefaultRetentionWindow
	}
	if tick <= 0 {
		tick = DefaultThrottleTick
	}
	if clock == nil {
		clock = time.Now
	}
	return &deliveryGate{
		histories: make(map[string][]sendRecord),
		window:    window,
		tick:      tick,
		now:       clock,
		log:       logger,
	}
}

func (g *deliveryGate) ShouldSend(recipientID, message string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	kept := g.prune(recipientID, now)

	// Throttle rule runs before the duplicate rule: a send inside the
	// current tick suppresses regardless of content.
	for _, rec := range kept {
		if now.Sub(rec.sentAt) < g.tick {
			metrics.IncNotification(metrics.ResultThrottled)
			g.log.Debug().
				Str("recipient", recipientID).
				Time("last_send", rec.sentAt).
				Msg("suppressed: send within throttle tick")
			return false
		}
	}

	for _, rec := range kept {
		if rec.message == message {
			metrics.IncNotification(metrics.ResultDuplicate)
			g.log.Debug().
				Str("recipient", recipientID).
				Time("last_send", rec.sentAt).
				Msg("suppressed: duplicate message within retention window")
			return false
		}
	}

	g.histories[recipientID] = append(kept, sendRecord{message: message, sentAt: now})
	return true
}

// prune drops records strictly older than the retention window and writes the
// surviving slice back so suppressed checks still reclaim memory.
func (g *deliveryGate) prune(recipientID string, now time.Time) []sendRecord {
	hist, ok := g.histories[recipientID]
	if !ok {
		return nil
	}
	kept := hist[:0]
	for _, rec := range hist {
		if now.Sub(rec.sentAt) > g.window {
			continue
		}
		kept = append(kept, rec)
	}
	if len(kept) == 0 {
		delete(g.histories, recipientID)
		return nil
	}
	g.histories[recipientID] = kept
	return kept
}

func (g *deliveryGate) HistoryLen(recipientID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.histories[recipientID])
}

func (g *deliveryGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.histories = make(map[string][]sendRecord)
}
