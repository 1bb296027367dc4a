package api

import (
	"encoding/json"
	"errors"
	"net/http"

	merrors "github.com/matzehuels/masonry/pkg/errors"
)

type errorBody struct {
	Code    merrors.Code `json:"code"`
	Message string       `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code merrors.Code) int {
	switch code {
	case merrors.ErrCodeInvalidConfiguration,
		merrors.ErrCodeInvalidHeight,
		merrors.ErrCodeInvalidInput,
		merrors.ErrCodeInvalidFormat,
		merrors.ErrCodeInvalidManifest,
		merrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case merrors.ErrCodeNotFound,
		merrors.ErrCodeFileNotFound,
		merrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case merrors.ErrCodeNotComputed:
		return http.StatusConflict
	case merrors.ErrCodeNetwork:
		return http.StatusBadGateway
	case merrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case merrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := merrors.GetCode(err)
	if code == "" {
		code = merrors.ErrCodeInternal
	}
	msg := merrors.UserMessage(err)

	// Unwrap to the innermost coded message for wrapped validation errors.
	var inner *merrors.Error
	if errors.As(err, &inner) && inner.Cause != nil {
		if c := merrors.GetCode(inner.Cause); c != "" {
			msg = msg + ": " + merrors.UserMessage(inner.Cause)
		}
	}
	writeJSON(w, statusFor(code), errorBody{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errNotFound(format string, args ...any) error {
	return merrors.New(merrors.ErrCodeNotFound, format, args...)
}
