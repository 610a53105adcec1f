package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/md-rashed-zaman/gymdesk/libs/httpx"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/apperr"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	httpx.WriteJSON(w, status, envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	httpx.WriteJSON(w, status, envelope{Success: status < 400, Message: msg})
}

var errBadJSON = errors.New("invalid json body")

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadJSON)
		}
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return nil
}

// writeError is the single mapping from domain errors to HTTP responses.
// Unexpected errors are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if v, ok := apperr.AsValidation(err); ok {
		httpx.WriteJSON(w, http.StatusBadRequest, envelope{Message: v.Message(), Errors: v.Fields})
		return
	}
	if errors.Is(err, errBadJSON) {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if errors.Is(err, session.ErrUnauthorized) {
		writeMessage(w, http.StatusUnauthorized, session.UnauthorizedMessage)
		return
	}
	if e, ok := apperr.As(err); ok {
		writeMessage(w, kindStatus(e.Kind), e.Message)
		return
	}
	logger.Error("request failed", "err", err, "method", r.Method, "path", r.URL.Path, "request_id", httpx.RequestIDFromContext(r.Context()))
	writeMessage(w, http.StatusInternalServerError, "internal error")
}

func kindStatus(k apperr.Kind) int {
	switch k {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindInvalid:
		return http.StatusBadRequest
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
