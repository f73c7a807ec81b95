package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sakhi-junction/internal/model"
	"sakhi-junction/pkg/apierror"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) model.APIResponse {
	t.Helper()
	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteError_APIError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, apierror.Forbidden("Not authorized to access this resource"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "Not authorized to access this resource", body.Message)
}

func TestWriteError_UnclassifiedErrorStaysGeneric(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Internal server error. Please try again.", body.Message)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{"))
		var payload model.RegisterRequest
		err := decodeAndValidate(req, &payload)
		require.Error(t, err)

		rec := httptest.NewRecorder()
		writeError(rec, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation failures become field errors", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader(`{"email":"not-an-email","password":"123"}`))
		var payload model.RegisterRequest
		err := decodeAndValidate(req, &payload)
		require.Error(t, err)

		rec := httptest.NewRecorder()
		writeError(rec, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "Validation failed", body.Message)
		assert.Contains(t, body.Errors, "email must be a valid email address")
		assert.Contains(t, body.Errors, "password must be at least 6 characters")
	})

	t.Run("valid payload passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader(`{"email":"asha@example.com","password":"secret123","name":"Asha"}`))
		var payload model.RegisterRequest
		require.NoError(t, decodeAndValidate(req, &payload))
		assert.Equal(t, "asha@example.com", payload.Email)
	})
}

func TestWriteSuccess_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(rec, http.StatusCreated, "Post created successfully",
		map[string]string{"id": "p1"}, &model.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "Post created successfully", body.Message)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 1, body.Meta.CurrentPage)
}
