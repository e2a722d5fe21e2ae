package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/PigStep/vibe-idef0-front/pkg/errors"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an [ErrorResponse] and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	status := errors.HTTPStatus(err)
	resp := ErrorResponse{
		Detail: errors.UserMessage(err),
		Code:   string(errors.GetCode(err)),
	}
	if status == http.StatusInternalServerError {
		resp.Detail = "internal server error"
		if resp.Code == "" {
			resp.Code = string(errors.ErrCodeInternal)
		}
	}
	WriteJSON(w, status, resp)
	return status
}

// WriteDocument writes data with the given content type. A non-empty
// filename adds a Content-Disposition attachment header.
func WriteDocument(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// DecodeJSON decodes a single JSON value from r into v, reading at most
// limit bytes. Trailing data is rejected. Failures are INVALID_INPUT errors.
func DecodeJSON(r io.Reader, limit int64, v any) error {
	lr := &io.LimitedReader{R: r, N: limit + 1}
	dec := json.NewDecoder(lr)

	if err := dec.Decode(v); err != nil {
		if lr.N <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", limit)
		}
		if err == io.EOF {
			return errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		}
		return errors.New(errors.ErrCodeInvalidInput, "decode request body: %v", err)
	}
	if dec.More() {
		return errors.New(errors.ErrCodeInvalidInput, "request body must contain a single JSON object")
	}
	return nil
}
