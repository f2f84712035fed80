package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/matzehuels/cardpress/pkg/errors"
)

// decodeJSON decodes a size-limited request body into v. Unknown fields
// are rejected. An empty body leaves v unchanged.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: toAPIError(err)})
}

func toAPIError(err error) apiError {
	e := apiError{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	if e.Code == "" {
		e.Code = errors.ErrCodeInternal
	}
	if oe, ok := errors.AsOverflow(err); ok {
		e.Message = oe.Error()
		e.Deficit = oe.Deficit
	}
	return e
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidName, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeResourceNotFound:
		return http.StatusNotFound
	case errors.ErrCodeOverflow, errors.ErrCodeInvalidGeometry, errors.ErrCodeLayout:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
