package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"family-health-dashboard/internal/converter"
	"family-health-dashboard/internal/delivery/dto"
	"family-health-dashboard/internal/state"
	"family-health-dashboard/pkg/response"
	"family-health-dashboard/pkg/validator"
)

type DashboardHandler struct {
	validator *validator.CustomValidator
}

func NewDashboardHandler(validator *validator.CustomValidator) *DashboardHandler {
	return &DashboardHandler{
		validator: validator,
	}
}

// Get handles reading the dashboard
// @Summary Get dashboard state
// @Description Profiles, active profile, the five mirrored collections, current view and error
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, ok := currentDashboard(w, r)
	if !ok {
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", converter.StateToResponse(d.State()))
}

func (h *DashboardHandler) SetView(w http.ResponseWriter, r *http.Request) {
	d, ok := currentDashboard(w, r)
	if !ok {
		return
	}

	var req dto.SetViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := d.SetView(r.Context(), state.View(req.View)); err != nil {
		writeMutationError(w, err, "Failed to change view")
		return
	}

	response.Success(w, http.StatusOK, "View changed", converter.StateToResponse(d.State()))
}

func (h *DashboardHandler) DismissError(w http.ResponseWriter, r *http.Request) {
	d, ok := currentDashboard(w, r)
	if !ok {
		return
	}

	if err := d.DismissError(r.Context()); err != nil {
		writeMutationError(w, err, "Failed to dismiss error")
		return
	}

	response.Success(w, http.StatusOK, "Error dismissed", nil)
}

// Export handles the report download
// @Summary Export health report
// @Description JSON report of the active profile built from the mirrored collections
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ExportReport
// @Failure 409 {object} response.Response
// @Router /export [get]
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	d, ok := currentDashboard(w, r)
	if !ok {
		return
	}

	now := time.Now()
	report, err := d.Export(now)
	if err != nil {
		writeMutationError(w, err, "Failed to export report")
		return
	}

	name := strings.Join(strings.Fields(report.Profile.Name), "_")
	response.Attachment(w, fmt.Sprintf("health-report-%s-%s.json", name, now.Format("20060102")), report)
}
