package dto

import "time"

// Request DTOs

type CreateProfileRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	Relationship string `json:"relationship" validate:"required,max=60"`
}

type SelectProfileRequest struct {
	ProfileID string `json:"profile_id" validate:"required"`
}

// Response DTOs

type ProfileResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	CreatedAt    time.Time `json:"created_at"`
}
