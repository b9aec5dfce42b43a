package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"go-membership-api/internal/model"
	"go-membership-api/pkg/apierror"
)

// maxJSONBody bounds non-upload request bodies.
const maxJSONBody = 1 << 20

type fieldData struct {
	Field string `json:"field"`
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeEnvelopeBody(w, apierror.CodeOK, true, message, data)
}

func writeEnvelopeBody(w http.ResponseWriter, code int, ok bool, message string, data any) {
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Code:    code,
		Status:  ok,
		Message: message,
		Data:    data,
	})
}

// writeError renders err as an envelope. Unclassified errors and store
// failures are logged and reduced to a generic message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := apierror.CodeInternal
	message := "Unexpected server error"
	var data any

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		code = apiErr.AppCode
		message = apiErr.Message
		if apiErr.Field != "" {
			data = fieldData{Field: apiErr.Field}
		}
		if apiErr.Kind == apierror.KindPersistence {
			slog.Error("persistence failure", "message", apiErr.Message, "error", apiErr.Err)
		}
	} else {
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeEnvelopeBody(w, code, false, message, data)
}

// decodeJSON reads a single JSON value from the body, capped at limit bytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := decoder.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apierror.New("PAYLOAD_TOO_LARGE", "request body is too large", "", http.StatusRequestEntityTooLarge)
		}
		return apierror.BadRequest("invalid JSON body", "")
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return apierror.BadRequest("invalid JSON body", "trailing data")
	}
	return nil
}

// NotFound and MethodNotAllowed keep unknown routes inside the envelope.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, apierror.New("NOT_FOUND", "Not Found", "", http.StatusNotFound))
}

func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, apierror.New("METHOD_NOT_ALLOWED", "Method Not Allowed", "", http.StatusMethodNotAllowed))
}

// blockedFilter reads the optional ?blocked= query flag.
func blockedFilter(r *http.Request) (*bool, error) {
	raw := r.URL.Query().Get("blocked")
	if raw == "" {
		return nil, nil
	}
	blocked, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apierror.BadRequest("blocked must be true or false", raw)
	}
	return &blocked, nil
}
