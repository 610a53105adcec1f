package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/apperr"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/appointments"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/handlers"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAppointmentService struct {
	mock.Mock
}

func (m *MockAppointmentService) Create(ctx context.Context, in appointments.CreateInput) (appointments.View, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(appointments.View), args.Error(1)
}

func (m *MockAppointmentService) List(ctx context.Context, admin session.Identity, status string) ([]appointments.View, error) {
	args := m.Called(ctx, admin, status)
	return args.Get(0).([]appointments.View), args.Error(1)
}

func (m *MockAppointmentService) UpdateStatus(ctx context.Context, admin session.Identity, id, status string) (appointments.View, error) {
	args := m.Called(ctx, admin, id, status)
	return args.Get(0).(appointments.View), args.Error(1)
}

var coach = session.Identity{ID: "8d9e0f1a-2b3c-4d5e-8f6a-7b8c9d0e1f2a", Username: "coach"}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

type response struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
	Token   string            `json:"token"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response {
	t.Helper()
	var r response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r), w.Body.String())
	return r
}

func TestAppointmentHandler_Create(t *testing.T) {
	t.Run("passes the form through and returns 201", func(t *testing.T) {
		svc := new(MockAppointmentService)
		h := handlers.NewAppointmentHandler(svc, discard())

		svc.On("Create", mock.Anything, appointments.CreateInput{
			Name: "Jane Doe", Email: "jane@x.com", Phone: "09171234567",
			PreferredDate: "2026-04-02T18:30", PlanID: "p-1",
		}).Return(appointments.View{ID: "a-1", Status: model.StatusPending}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/appointments", jsonBody(t, map[string]string{
			"name": "Jane Doe", "email": "jane@x.com", "phone": "09171234567",
			"preferredDate": "2026-04-02T18:30", "planId": "p-1",
		}))
		w := httptest.NewRecorder()
		h.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, decode(t, w).Success)
		svc.AssertExpectations(t)
	})

	t.Run("returns 400 for invalid json", func(t *testing.T) {
		h := handlers.NewAppointmentHandler(new(MockAppointmentService), discard())
		req := httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		h.Create(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps domain errors", func(t *testing.T) {
		invalid := apperr.NewValidation()
		invalid.Add("email", "Email is required")
		cases := []struct {
			err     error
			code    int
			message string
		}{
			{appointments.ErrPlanNotFound, http.StatusNotFound, "Selected plan not found"},
			{invalid, http.StatusBadRequest, "Email is required"},
			{errors.New("connection reset"), http.StatusInternalServerError, "internal error"},
		}
		for _, c := range cases {
			svc := new(MockAppointmentService)
			h := handlers.NewAppointmentHandler(svc, discard())
			svc.On("Create", mock.Anything, mock.Anything).Return(appointments.View{}, c.err)

			req := httptest.NewRequest(http.MethodPost, "/api/appointments", jsonBody(t, map[string]string{"planId": "x"}))
			w := httptest.NewRecorder()
			h.Create(w, req)

			assert.Equal(t, c.code, w.Code, c.err.Error())
			body := decode(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, c.message, body.Message)
		}
	})
}

func TestAppointmentHandler_List(t *testing.T) {
	svc := new(MockAppointmentService)
	h := handlers.NewAppointmentHandler(svc, discard())
	svc.On("List", mock.Anything, coach, "confirmed").Return([]appointments.View{{ID: "a-1"}, {ID: "a-2"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/appointments?status=confirmed", nil)
	w := httptest.NewRecorder()
	h.List(w, req, coach)

	assert.Equal(t, http.StatusOK, w.Code)
	var views []map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &views))
	assert.Len(t, views, 2)
}

func TestAppointmentHandler_UpdateStatus(t *testing.T) {
	t.Run("passes the path id through", func(t *testing.T) {
		svc := new(MockAppointmentService)
		h := handlers.NewAppointmentHandler(svc, discard())
		svc.On("UpdateStatus", mock.Anything, coach, "a-1", "confirmed").Return(appointments.View{ID: "a-1", Status: model.StatusConfirmed}, nil)

		req := httptest.NewRequest(http.MethodPut, "/api/appointments/a-1/status", jsonBody(t, map[string]string{"status": "confirmed"}))
		req.SetPathValue("id", "a-1")
		w := httptest.NewRecorder()
		h.UpdateStatus(w, req, coach)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown appointment is 404", func(t *testing.T) {
		svc := new(MockAppointmentService)
		h := handlers.NewAppointmentHandler(svc, discard())
		svc.On("UpdateStatus", mock.Anything, coach, "missing", "cancelled").Return(appointments.View{}, appointments.ErrAppointmentNotFound)

		req := httptest.NewRequest(http.MethodPut, "/api/appointments/missing/status", jsonBody(t, map[string]string{"status": "cancelled"}))
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()
		h.UpdateStatus(w, req, coach)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Appointment not found", decode(t, w).Message)
	})
}
