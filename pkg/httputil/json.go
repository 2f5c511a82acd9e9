package httputil

import (
	"encoding/json"
	"io"
	"net/http"

	cerrors "github.com/matzehuels/canopy/pkg/errors"
)

// MaxBodySize bounds request bodies read by DecodeJSON.
const MaxBodySize = 1 << 20

// ErrorBody is the JSON shape of error responses.
type ErrorBody struct {
	Code  cerrors.Code `json:"code"`
	Error string       `json:"error"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an ErrorBody with the status for its code.
func WriteError(w http.ResponseWriter, err error) {
	code := cerrors.GetCode(err)
	if code == "" {
		code = cerrors.ErrCodeInternal
	}
	WriteJSON(w, Status(code), ErrorBody{Code: code, Error: cerrors.UserMessage(err)})
}

// Status maps an error code to an HTTP status.
func Status(code cerrors.Code) int {
	switch code {
	case cerrors.ErrCodeInvalidInput, cerrors.ErrCodeInvalidFormat, cerrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case cerrors.ErrCodeNotFound, cerrors.ErrCodeNodeNotFound, cerrors.ErrCodeFileNotFound, cerrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case cerrors.ErrCodeNotInteractive, cerrors.ErrCodeSurfaceNotReady:
		return http.StatusConflict
	case cerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON decodes the request body into v. An empty body leaves v
// untouched.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
