package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"cdcaccount/internal/events"
	"cdcaccount/pkg/domain"
)

const webhookEventRegistration = "accountRegistered"

// maxWebhookBytes bounds the signed payload read from the vendor.
const maxWebhookBytes = 256 << 10

// WebhookHandler accepts signed registration notifications from the vendor
// and feeds them to the reconciliation pipeline.
type WebhookHandler struct {
	secret []byte
	inbox  chan<- events.RegistrationEvent
	logger *slog.Logger
}

// NewWebhookHandler constructs a webhook handler. secret is the shared HMAC
// key the vendor signs payloads with.
func NewWebhookHandler(secret []byte, inbox chan<- events.RegistrationEvent, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		secret: secret,
		inbox:  inbox,
		logger: logger,
	}
}

// Register mounts webhook endpoints on the router.
func (h *WebhookHandler) Register(r chi.Router) {
	r.Post("/webhooks/registration", h.HandleRegistration)
}

type webhookClaims struct {
	jwt.RegisteredClaims
	Events []webhookEvent `json:"events"`
}

type webhookEvent struct {
	ID        string           `json:"id"`
	Type      string           `json:"type"`
	Timestamp int64            `json:"timestamp"`
	Data      webhookEventData `json:"data"`
}

type webhookEventData struct {
	UID        string `json:"uid"`
	Datacenter string `json:"dataCenter"`
}

// HandleRegistration handles POST /webhooks/registration requests. The body
// is a compact JWS signed with the shared secret. Events are acknowledged
// with 202 once queued; reconciliation happens asynchronously and its
// failures are never surfaced to the vendor.
func (h *WebhookHandler) HandleRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", Description: "unreadable body"})
		return
	}

	claims := &webhookClaims{}
	_, err = jwt.ParseWithClaims(strings.TrimSpace(string(body)), claims,
		func(*jwt.Token) (any, error) { return h.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		h.logger.WarnContext(ctx, "webhook signature rejected", "error", err)
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid_signature"})
		return
	}

	accepted := 0
	for _, ev := range claims.Events {
		if ev.Type != webhookEventRegistration {
			continue
		}
		uid, err := domain.ParseUID(ev.Data.UID)
		if err != nil {
			h.logger.WarnContext(ctx, "webhook event has invalid uid",
				"event_id", ev.ID,
				"error", err,
			)
			continue
		}
		dc, _ := domain.ParseDatacenter(ev.Data.Datacenter)

		event := events.RegistrationEvent{
			EventID:    ev.ID,
			UID:        uid,
			Datacenter: dc,
			Timestamp:  time.Unix(ev.Timestamp, 0),
		}
		select {
		case h.inbox <- event:
			accepted++
		default:
			h.logger.ErrorContext(ctx, "registration event queue full, dropping event",
				"event_id", ev.ID,
				"uid", uid,
			)
		}
	}

	writeJSON(w, http.StatusAccepted, map[string]int{"accepted": accepted})
}
