// Package webhook implements the HTTP receiver for Strava push
// subscriptions and the in-memory ring of recent change events.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stride/pkg/logging"
)

// CacheInvalidator is satisfied by the Strava client: activity change
// events bust the response cache so the next read observes the change.
type CacheInvalidator interface {
	ClearCache()
}

// Receiver serves the webhook endpoint: the subscription validation
// handshake on GET and event ingestion on POST.
type Receiver struct {
	verifyToken string
	ring        *EventRing
	invalidator CacheInvalidator

	httpServer *http.Server
}

// NewReceiver creates a receiver feeding the given ring. invalidator may
// be nil when no cache should be busted on events.
func NewReceiver(verifyToken string, ring *EventRing, invalidator CacheInvalidator) *Receiver {
	return &Receiver{
		verifyToken: verifyToken,
		ring:        ring,
		invalidator: invalidator,
	}
}

// Ring returns the event ring fed by this receiver.
func (rc *Receiver) Ring() *EventRing {
	return rc.ring
}

// Handler returns the HTTP handler for the /webhook endpoint.
func (rc *Receiver) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", rc.handleWebhook)
	return mux
}

// Start begins serving the webhook endpoint on addr.
func (rc *Receiver) Start(addr string) error {
	rc.httpServer = &http.Server{
		Addr:              addr,
		Handler:           rc.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info("Webhook", "Serving webhook endpoint on %s", addr)
	if err := rc.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("webhook server error: %w", err)
	}
	return nil
}

// Stop shuts the webhook server down gracefully.
func (rc *Receiver) Stop(ctx context.Context) error {
	if rc.httpServer == nil {
		return nil
	}
	return rc.httpServer.Shutdown(ctx)
}

func (rc *Receiver) handleWebhook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rc.handleValidation(w, r)
	case http.MethodPost:
		rc.handleEvent(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleValidation answers the subscription validation handshake: the
// caller proves knowledge of the shared verify token and we echo the
// challenge back.
func (rc *Receiver) handleValidation(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("hub.mode") != "subscribe" || query.Get("hub.verify_token") != rc.verifyToken {
		logging.Warn("Webhook", "Rejected validation request with bad verify token")
		http.Error(w, "verification failed", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"hub.challenge": query.Get("hub.challenge"),
	})
	logging.Info("Webhook", "Answered subscription validation handshake")
}

// handleEvent ingests one change event. The endpoint acknowledges
// immediately; all processing here is in-memory.
func (rc *Receiver) handleEvent(w http.ResponseWriter, r *http.Request) {
	var event Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		logging.Warn("Webhook", "Discarding undecodable event: %v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	stored := rc.ring.Push(event)
	logging.Info("Webhook", "Received %s %s event for object %d (receipt %s)",
		event.ObjectType, event.AspectType, event.ObjectID, stored.ReceiptID)

	// Activity changes invalidate memoized responses so the next tool
	// call sees fresh data.
	if rc.invalidator != nil && event.ObjectType == "activity" {
		rc.invalidator.ClearCache()
	}

	w.WriteHeader(http.StatusOK)
}
