package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: bad year", ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: invalid username/password", ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("%w: not the linked user", ErrForbidden), http.StatusForbidden},
		{ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: already exists", ErrConflict), http.StatusConflict},
		{errors.New("pool exhausted"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code)

		var envelope struct {
			Error ErrorBody `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, tc.status, envelope.Error.Status)
		assert.NotEmpty(t, envelope.Error.Message)
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("dial tcp 10.0.0.3:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
	assert.Contains(t, rec.Body.String(), "internal server error")
}
