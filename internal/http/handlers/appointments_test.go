package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsmiledental/clinic-platform/pkg/logging"
)

const validBookingBody = `{
	"firstName": "Alma",
	"lastName": "Reyes",
	"email": "alma@example.com",
	"phone": "+15550100",
	"service": "cleaning",
	"date": "2026-09-07",
	"time": "09:30"
}`

func postBooking(h *BookingHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func TestCreateBookingSuccess(t *testing.T) {
	h := NewBookingHandler(newTestService(&fakeRepo{}), logging.Default())

	rec := postBooking(h, validBookingBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(1), resp.AppointmentID)
	assert.False(t, resp.EmailSent) // no sender wired in tests
}

func TestCreateBookingMissingPhone(t *testing.T) {
	repo := &fakeRepo{}
	h := NewBookingHandler(newTestService(repo), logging.Default())

	body := strings.Replace(validBookingBody, `"phone": "+15550100",`, `"phone": "",`, 1)
	rec := postBooking(h, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "phone")
	assert.Empty(t, repo.appts, "no row may be inserted on validation failure")
}

func TestCreateBookingConflict(t *testing.T) {
	h := NewBookingHandler(newTestService(&fakeRepo{}), logging.Default())

	rec := postBooking(h, validBookingBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postBooking(h, validBookingBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"slot no longer available"}`, rec.Body.String())
}

func TestCreateBookingMalformedJSON(t *testing.T) {
	h := NewBookingHandler(newTestService(&fakeRepo{}), logging.Default())

	rec := postBooking(h, `{"firstName":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBookingStoreError(t *testing.T) {
	repo := &fakeRepo{err: assert.AnError}
	h := NewBookingHandler(newTestService(repo), logging.Default())

	rec := postBooking(h, validBookingBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
