package webhook

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultRingSize is the default capacity of the event ring.
const DefaultRingSize = 64

// Event is one change notification pushed by the upstream service,
// annotated with a receipt id and arrival time on ingestion.
type Event struct {
	// ReceiptID is assigned by stride when the event arrives and ties a
	// stored event back to the request that delivered it.
	ReceiptID  string `json:"receipt_id"`
	ReceivedAt string `json:"received_at"`

	ObjectType     string            `json:"object_type"`
	ObjectID       int64             `json:"object_id"`
	AspectType     string            `json:"aspect_type"`
	OwnerID        int64             `json:"owner_id"`
	SubscriptionID int64             `json:"subscription_id"`
	EventTime      int64             `json:"event_time"`
	Updates        map[string]string `json:"updates,omitempty"`
}

// EventRing is a fixed-capacity in-memory buffer of recent webhook events.
// When full, the oldest event is overwritten. It is safe for concurrent
// use by the HTTP receiver and MCP resource reads.
type EventRing struct {
	mu     sync.RWMutex
	events []Event
	next   int
	filled bool
}

// NewEventRing creates a ring with the given capacity; non-positive values
// fall back to DefaultRingSize.
func NewEventRing(capacity int) *EventRing {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &EventRing{events: make([]Event, capacity)}
}

// Push stamps the event with a receipt id and arrival time and stores it,
// overwriting the oldest entry when the ring is full. The stamped event is
// returned for logging.
func (r *EventRing) Push(event Event) Event {
	event.ReceiptID = uuid.NewString()
	event.ReceivedAt = time.Now().UTC().Format(time.RFC3339)

	r.mu.Lock()
	r.events[r.next] = event
	r.next++
	if r.next == len(r.events) {
		r.next = 0
		r.filled = true
	}
	r.mu.Unlock()

	return event
}

// Recent returns up to n events, newest first. n <= 0 returns everything
// buffered.
func (r *EventRing) Recent(n int) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := r.next
	if r.filled {
		size = len(r.events)
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]Event, 0, n)
	for i := 1; i <= n; i++ {
		idx := r.next - i
		if idx < 0 {
			idx += len(r.events)
		}
		out = append(out, r.events[idx])
	}
	return out
}

// Len returns the number of buffered events.
func (r *EventRing) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.filled {
		return len(r.events)
	}
	return r.next
}
