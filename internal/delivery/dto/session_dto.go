package dto

// Request DTOs

type OpenSessionRequest struct {
	// Token resumes an earlier session. Empty issues an anonymous one.
	Token string `json:"token"`
}

// Response DTOs

type SessionResponse struct {
	Identity  string `json:"identity"`
	Token     string `json:"token"`
	Anonymous bool   `json:"anonymous"`
	ExpiresIn int64  `json:"expires_in"`
}
