package converter

import (
	"family-health-dashboard/internal/delivery/dto"
	"family-health-dashboard/internal/domain/entity"
)

// ProfileToResponse converts a Profile entity to ProfileResponse DTO
func ProfileToResponse(profile *entity.Profile) *dto.ProfileResponse {
	if profile == nil {
		return nil
	}

	return &dto.ProfileResponse{
		ID:           profile.ID,
		Name:         profile.Name,
		Relationship: profile.Relationship,
		CreatedAt:    profile.CreatedAt,
	}
}

func ProfilesToResponses(profiles []entity.Profile) []dto.ProfileResponse {
	responses := make([]dto.ProfileResponse, len(profiles))
	for i := range profiles {
		responses[i] = *ProfileToResponse(&profiles[i])
	}
	return responses
}
