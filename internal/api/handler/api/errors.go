// internal/api/handler/api/errors.go
package api

import (
	"errors"
	"net/http"

	"github.com/newthinker/btview/internal/api/response"
	"github.com/newthinker/btview/internal/core"
)

// statusFor maps a core error to the HTTP status returned to the caller.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrParamsInvalid), errors.Is(err, core.ErrInvalidResult):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, core.ErrNoData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrEngineFailed):
		return http.StatusBadGateway
	case errors.Is(err, core.ErrEngineTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	response.Error(w, statusFor(err), err)
}
