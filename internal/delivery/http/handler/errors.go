package handler

import (
	"errors"
	"net/http"

	"family-health-dashboard/internal/dashboard"
	"family-health-dashboard/internal/delivery/http/middleware"
	"family-health-dashboard/internal/infrastructure/blob"
	"family-health-dashboard/internal/usecase"
	"family-health-dashboard/pkg/response"
)

// currentDashboard writes 401 and returns false when the request carries no dashboard.
func currentDashboard(w http.ResponseWriter, r *http.Request) (*dashboard.Dashboard, bool) {
	d, ok := middleware.GetDashboardFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Session is not established")
		return nil, false
	}
	return d, true
}

// writeMutationError maps write-path errors to responses. fallback is used for
// unexpected failures.
func writeMutationError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrProfileLimitReached):
		response.Conflict(w, dashboard.ProfileLimitMessage)
	case errors.Is(err, usecase.ErrProfileNotFound):
		response.NotFound(w, "Profile not found")
	case errors.Is(err, usecase.ErrRecordNotFound):
		response.NotFound(w, "Record not found")
	case errors.Is(err, usecase.ErrInvalidRecord), errors.Is(err, usecase.ErrInvalidProfile):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrUnsupportedFile):
		response.BadRequest(w, err.Error())
	case errors.Is(err, blob.ErrInvalidPath):
		response.BadRequest(w, "Invalid file name")
	case errors.Is(err, usecase.ErrNoActiveProfile):
		response.Conflict(w, "No active profile")
	case errors.Is(err, dashboard.ErrInvalidView):
		response.BadRequest(w, "Unknown view")
	case errors.Is(err, dashboard.ErrClosed):
		response.ServiceUnavailable(w, "Session is closing")
	default:
		response.InternalServerError(w, fallback)
	}
}
