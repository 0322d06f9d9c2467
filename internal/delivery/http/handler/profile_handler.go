package handler

import (
	"encoding/json"
	"net/http"

	"family-health-dashboard/internal/converter"
	"family-health-dashboard/internal/delivery/dto"
	"family-health-dashboard/pkg/response"
	"family-health-dashboard/pkg/validator"

	"github.com/gorilla/mux"
)

type ProfileHandler struct {
	validator *validator.CustomValidator
}

func NewProfileHandler(validator *validator.CustomValidator) *ProfileHandler {
	return &ProfileHandler{
		validator: validator,
	}
}

// CreateProfile handles adding a family member
// @Summary Add a profile
// @Description Adds a profile and makes it active; at most ten per identity
// @Tags Profiles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateProfileRequest true "Create Profile Request"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /profiles [post]
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	d, ok := currentDashboard(w, r)
	if !ok {
		return
	}

	var req dto.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, err := d.AddProfile(r.Context(), req.Name, req.Relationship)
	if err != nil {
		writeMutationError(w, err, "Failed to add profile")
		return
	}

	response.Success(w, http.StatusCreated, "Profile created successfully", converter.ProfileToResponse(profile))
}

func (h *ProfileHandler) SelectProfile(w http.ResponseWriter, r *http.Request) {
	d, ok := currentDashboard(w, r)
	if !ok {
		return
	}

	var req dto.SelectProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := d.SelectProfile(r.Context(), req.ProfileID); err != nil {
		writeMutationError(w, err, "Failed to select profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile selected", converter.StateToResponse(d.State()))
}

func (h *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	d, ok := currentDashboard(w, r)
	if !ok {
		return
	}

	profileID := mux.Vars(r)["id"]
	if err := d.DeleteProfile(r.Context(), profileID); err != nil {
		writeMutationError(w, err, "Failed to delete profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile deleted successfully", nil)
}
