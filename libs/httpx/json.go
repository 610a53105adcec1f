package httpx

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
)

const encodeFailureBody = `{"success":false,"message":"internal error"}` + "\n"

// WriteJSON writes v with the given status. v is encoded before anything is
// sent, so a value that cannot be encoded becomes a logged 500 instead of a
// truncated body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	if v == nil {
		w.WriteHeader(status)
		return
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Default().Error("response encode failed", "err", err, "status", status)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(encodeFailureBody))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
