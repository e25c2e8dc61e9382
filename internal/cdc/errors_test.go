package cdc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		code    int
		details string
		want    Kind
	}{
		{"success", 0, "", KindSuccess},
		{"login id exists", 400003, "", KindLoginIDExists},
		{"login id not found", 403047, "", KindLoginIDNotFound},
		{"pending registration", 206001, "Account is not fully registered", KindPendingRegistration},
		{"pending verification via details", 206001, "Missing required fields: verifiedEmailDate", KindPendingVerification},
		{"unknown code", 500028, "", KindFailure},
		{"unknown code with verification details stays failure", 500028, "verifiedEmailDate", KindFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.code, tc.details))
		})
	}
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, KindSuccess, ClassifyError(nil))
	assert.Equal(t, KindFailure, ClassifyError(errors.New("dial tcp: timeout")))

	err := responseError(403047, "Login identifier does not exist", "")
	assert.Equal(t, KindLoginIDNotFound, ClassifyError(err))
	assert.True(t, IsKind(err, KindLoginIDNotFound))
	assert.False(t, IsKind(err, KindFailure))

	wrapped := fmt.Errorf("get account: %w", err)
	assert.Equal(t, KindLoginIDNotFound, ClassifyError(wrapped))
}

func TestResponseError(t *testing.T) {
	assert.NoError(t, responseError(0, "OK", ""))

	err := responseError(400003, "Login ID already exists", "conflicting loginID")
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400003, apiErr.Code)
	assert.Contains(t, apiErr.Error(), "code 400003")
	assert.Contains(t, apiErr.Error(), "conflicting loginID")
}
