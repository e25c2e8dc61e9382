package cdc

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the closed classification of vendor responses that business logic
// branches on. Every numeric vendor code maps to exactly one Kind; codes not
// in the table collapse into KindFailure while keeping the original code and
// message for diagnostics.
type Kind string

const (
	KindSuccess             Kind = "success"
	KindLoginIDExists       Kind = "login_id_exists"
	KindLoginIDNotFound     Kind = "login_id_not_found"
	KindPendingRegistration Kind = "pending_registration"
	KindPendingVerification Kind = "pending_verification"
	KindFailure             Kind = "failure"
)

// Vendor numeric error codes this service gives a name to. The vendor emits
// many more; anything unnamed classifies as KindFailure.
const (
	CodeSuccess             = 0
	CodeLoginIDExists       = 400003
	CodeLoginIDNotFound     = 403047
	CodePendingRegistration = 206001
	CodeGeneralServerError  = 500001
)

// kindByCode is the single source of truth for the code-to-kind mapping.
// It is immutable for the process lifetime.
var kindByCode = map[int]Kind{
	CodeSuccess:             KindSuccess,
	CodeLoginIDExists:       KindLoginIDExists,
	CodeLoginIDNotFound:     KindLoginIDNotFound,
	CodePendingRegistration: KindPendingRegistration,
}

// verifiedEmailDateField refines pending-registration into
// pending-verification when it appears in the free-text error details.
//
// The vendor provides no structured signal for this distinction; matching a
// substring of a human-readable message is a known correctness risk we carry
// deliberately rather than guessing a stronger contract than the vendor
// actually offers.
const verifiedEmailDateField = "verifiedEmailDate"

// Classify maps a vendor error response to its Kind.
func Classify(code int, details string) Kind {
	kind, ok := kindByCode[code]
	if !ok {
		return KindFailure
	}
	if kind == KindPendingRegistration && strings.Contains(details, verifiedEmailDateField) {
		return KindPendingVerification
	}
	return kind
}

// APIError is a non-success vendor response. It carries the raw vendor code,
// message and details alongside the classified Kind.
type APIError struct {
	Code    int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("cdc: %s (code %d): %s", e.Message, e.Code, e.Details)
	}
	return fmt.Sprintf("cdc: %s (code %d)", e.Message, e.Code)
}

// Kind returns the classification of the underlying vendor code.
func (e *APIError) Kind() Kind {
	return Classify(e.Code, e.Details)
}

// ClassifyError returns the Kind of err. Nil classifies as success; errors
// that are not vendor responses classify as KindFailure.
func ClassifyError(err error) Kind {
	if err == nil {
		return KindSuccess
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind()
	}
	return KindFailure
}

// IsKind reports whether err classifies as the given Kind.
func IsKind(err error, kind Kind) bool {
	return ClassifyError(err) == kind
}

// responseError converts a decoded vendor envelope to a typed error,
// or nil when the vendor reported success.
func responseError(code int, message, details string) error {
	if code == CodeSuccess {
		return nil
	}
	return &APIError{Code: code, Message: message, Details: details}
}
