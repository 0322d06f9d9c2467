package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"family-health-dashboard/internal/dashboard"
	"family-health-dashboard/internal/delivery/dto"
	"family-health-dashboard/internal/delivery/http/middleware"
	"family-health-dashboard/internal/usecase"
	"family-health-dashboard/pkg/response"

	"github.com/sirupsen/logrus"
)

type SessionHandler struct {
	sessionUsecase usecase.SessionUsecase
	registry       *dashboard.Registry
	log            *logrus.Logger
}

func NewSessionHandler(sessionUsecase usecase.SessionUsecase, registry *dashboard.Registry, log *logrus.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUsecase: sessionUsecase,
		registry:       registry,
		log:            log,
	}
}

// Open handles session establishment
// @Summary Open a dashboard session
// @Description Resume the session of token, or issue an anonymous one when no token is sent
// @Tags Session
// @Accept json
// @Produce json
// @Param request body dto.OpenSessionRequest false "Open Session Request"
// @Success 201 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /session [post]
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	d, err := h.registry.Open(r.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidToken), errors.Is(err, usecase.ErrTokenRevoked):
			response.Unauthorized(w, "Invalid or revoked token")
		default:
			h.log.Warnf("Failed to open session: %+v", err)
			response.ServiceUnavailable(w, "Failed to establish session")
		}
		return
	}

	session := d.Session()
	response.Success(w, http.StatusCreated, "Session established", &dto.SessionResponse{
		Identity:  session.Identity(),
		Token:     session.Token,
		Anonymous: session.Anonymous,
		ExpiresIn: session.ExpiresIn,
	})
}

// Close revokes the session token and stops its dashboard.
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := middleware.GetTokenIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	identity, _ := middleware.GetIdentityFromContext(r.Context())

	if err := h.sessionUsecase.Revoke(r.Context(), identity, tokenID); err != nil {
		response.InternalServerError(w, "Failed to close session")
		return
	}
	h.registry.Close(tokenID)

	response.Success(w, http.StatusOK, "Session closed", nil)
}
