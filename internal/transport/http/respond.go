package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"cdcaccount/internal/account"
	"cdcaccount/internal/account/litereg"
	"cdcaccount/internal/cdc"
)

type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps service errors onto HTTP statuses. Vendor failure details
// never reach the response body.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, account.ErrBlankInput), errors.Is(err, litereg.ErrBlankEmail):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", Description: err.Error()})
		return
	}

	var apiErr *cdc.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind() {
		case cdc.KindLoginIDNotFound:
			writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found"})
			return
		case cdc.KindLoginIDExists:
			writeJSON(w, http.StatusConflict, errorBody{Error: "conflict"})
			return
		case cdc.KindPendingRegistration, cdc.KindPendingVerification:
			writeJSON(w, http.StatusForbidden, errorBody{Error: "pending_account"})
			return
		}
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "upstream_error"})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal_error"})
}
