package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"libraryhub/shared/constant"
	"libraryhub/shared/failure"
	"libraryhub/transport/http/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "not found keeps its message",
			err:      failure.NotFound("room not found"),
			wantCode: http.StatusNotFound,
			wantMsg:  "room not found",
		},
		{
			name:     "wrapped failure reports the failure message only",
			err:      fmt.Errorf("failed to cancel: %w", failure.Forbidden("not allowed to cancel this reservation")),
			wantCode: http.StatusForbidden,
			wantMsg:  "not allowed to cancel this reservation",
		},
		{
			name:     "store error is hidden",
			err:      errors.New(`pq: relation "reservations" does not exist`),
			wantCode: http.StatusInternalServerError,
			wantMsg:  constant.ResponseErrorInternal,
		},
		{
			name:     "internal failure is hidden",
			err:      failure.InternalError(errors.New("dial tcp 10.0.0.3:5432: timeout")),
			wantCode: http.StatusInternalServerError,
			wantMsg:  constant.ResponseErrorInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			var body response.Error
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, constant.ContentTypeJSON, rec.Header().Get(constant.RequestHeaderContentType))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantMsg, *body.Error)
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusCreated, map[string]int64{"id": 42})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"id":42}}`, rec.Body.String())
}

func TestWithRequestLimitExceeded(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithRequestLimitExceeded(rec)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"message":"REQUEST LIMIT EXCEEDED"}`, rec.Body.String())
}
