package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cdcaccount/internal/audit"
	"cdcaccount/pkg/domain"
)

// AuditLog reads the reconciliation audit trail.
type AuditLog interface {
	List(ctx context.Context, uid domain.UID) ([]audit.Event, error)
}

// AuditHandler exposes the audit trail for one account.
type AuditHandler struct {
	log    AuditLog
	logger *slog.Logger
}

// NewAuditHandler constructs an audit handler.
func NewAuditHandler(log AuditLog, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{log: log, logger: logger}
}

// Register mounts audit endpoints on the router.
func (h *AuditHandler) Register(r chi.Router) {
	r.Get("/accounts/{uid}/audit", h.HandleList)
}

type auditEntry struct {
	Timestamp    string `json:"timestamp"`
	Action       string `json:"action"`
	Datacenter   string `json:"datacenter,omitempty"`
	Email        string `json:"email,omitempty"`
	DuplicateUID string `json:"duplicateUid,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// HandleList handles GET /accounts/{uid}/audit requests.
func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uid, err := domain.ParseUID(chi.URLParam(r, "uid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", Description: "invalid uid"})
		return
	}

	events, err := h.log.List(ctx, uid)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit trail read failed", "uid", uid, "error", err)
		writeError(w, err)
		return
	}

	entries := make([]auditEntry, 0, len(events))
	for _, ev := range events {
		entries = append(entries, auditEntry{
			Timestamp:    ev.Timestamp.UTC().Format(time.RFC3339),
			Action:       string(ev.Action),
			Datacenter:   ev.Datacenter.String(),
			Email:        ev.Email,
			DuplicateUID: ev.DuplicateUID.String(),
			Reason:       ev.Reason,
		})
	}
	writeJSON(w, http.StatusOK, map[string][]auditEntry{"events": entries})
}
