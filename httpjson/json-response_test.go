package httpjson

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPublicError struct {
	status int
	msg    string
}

func (e testPublicError) Error() string         { return "internal detail: " + e.msg }
func (e testPublicError) PublicMessage() string { return e.msg }
func (e testPublicError) HttpStatusCode() int   { return e.status }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleError_PublicErrorUsesOwnStatusAndMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(discardLogger(), rec, testPublicError{status: http.StatusTooManyRequests, msg: "slow down"}, "oops")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"slow down"}`, rec.Body.String())
}

func TestHandleError_UnknownErrorIsNotEchoed(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(discardLogger(), rec, errors.New("db password is hunter2"), "An error occurred.")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"An error occurred."}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestHandleError_DefaultsInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(discardLogger(), rec, errors.New("x"), "")

	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}
