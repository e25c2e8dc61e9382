package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cdcaccount/internal/account/litereg"
	"cdcaccount/internal/account/resolver"
	"cdcaccount/internal/cdc"
)

// AccountService defines the account operations the transport layer needs.
type AccountService interface {
	SearchByEmail(ctx context.Context, email string) (resolver.Outcome, error)
	LoginIDAvailable(ctx context.Context, loginID string) (bool, error)
	RegisterLiteBatch(ctx context.Context, emails []string) ([]litereg.Result, error)
}

// AccountHandler wires account endpoints to the account service.
type AccountHandler struct {
	service AccountService
	logger  *slog.Logger
}

// NewAccountHandler constructs an account handler with its dependencies.
func NewAccountHandler(service AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		logger:  logger,
	}
}

// Register mounts account endpoints on the router.
func (h *AccountHandler) Register(r chi.Router) {
	r.Post("/accounts/lite", h.HandleRegisterLite)
	r.Get("/accounts/search", h.HandleSearch)
	r.Get("/accounts/login-id/available", h.HandleLoginIDAvailable)
}

type registerLiteRequest struct {
	Emails []string `json:"emails"`
}

type registerLiteResponse struct {
	Results []litereg.Result `json:"results"`
}

// HandleRegisterLite handles POST /accounts/lite requests. Results are
// positional: entry i corresponds to the i-th submitted email.
func (h *AccountHandler) HandleRegisterLite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerLiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid lite registration body", "error", err)
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", Description: "invalid request body"})
		return
	}

	results, err := h.service.RegisterLiteBatch(ctx, req.Emails)
	if err != nil {
		h.logger.WarnContext(ctx, "lite registration batch rejected",
			"count", len(req.Emails),
			"error", err,
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, registerLiteResponse{Results: results})
}

type searchResponse struct {
	Datacenter string             `json:"datacenter,omitempty"`
	Results    []cdc.SearchResult `json:"results"`
}

// HandleSearch handles GET /accounts/search?email= requests.
func (h *AccountHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	outcome, err := h.service.SearchByEmail(ctx, r.URL.Query().Get("email"))
	if err != nil {
		h.logger.WarnContext(ctx, "account search failed", "error", err)
		writeError(w, err)
		return
	}

	resp := searchResponse{
		Datacenter: outcome.Datacenter.String(),
		Results:    outcome.Results,
	}
	if resp.Results == nil {
		resp.Results = []cdc.SearchResult{}
	}
	writeJSON(w, http.StatusOK, resp)
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

// HandleLoginIDAvailable handles GET /accounts/login-id/available?loginID=
// requests. A login ID is available only when no datacenter holds it.
func (h *AccountHandler) HandleLoginIDAvailable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	available, err := h.service.LoginIDAvailable(ctx, r.URL.Query().Get("loginID"))
	if err != nil {
		h.logger.WarnContext(ctx, "login id availability check failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, availabilityResponse{Available: available})
}
