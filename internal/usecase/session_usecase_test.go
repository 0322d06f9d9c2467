package usecase

import (
	"context"
	"testing"
	"time"

	"family-health-dashboard/config"
	"family-health-dashboard/internal/repository"
	"family-health-dashboard/internal/service"
	"family-health-dashboard/internal/testutil"
	"family-health-dashboard/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionUsecase(t *testing.T) (SessionUsecase, *miniredis.Miniredis) {
	t.Helper()
	db := testutil.NewDB(t)
	mr, client := testutil.NewRedis(t)
	log := testutil.NewLogger()
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", SessionExpiry: time.Hour})
	audit := service.NewAuditService(log, repository.NewAuditLogRepository())
	return NewSessionUsecase(db, log, "app", jwtService, client, audit), mr
}

func TestEstablishIssuesAnonymousSession(t *testing.T) {
	sessions, mr := newSessionUsecase(t)

	session, err := sessions.Establish(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, session.Anonymous)
	assert.NotEmpty(t, session.Identity())
	assert.Equal(t, "app", session.Owner.DeploymentID)
	assert.Equal(t, int64(3600), session.ExpiresIn)
	assert.True(t, mr.Exists(sessionKey(session.Identity(), session.TokenID)))
}

func TestEstablishResumesTokenSession(t *testing.T) {
	sessions, _ := newSessionUsecase(t)
	ctx := context.Background()

	first, err := sessions.Establish(ctx, "")
	require.NoError(t, err)

	resumed, err := sessions.Establish(ctx, first.Token)
	require.NoError(t, err)
	assert.Equal(t, first.Identity(), resumed.Identity())
	assert.Equal(t, first.TokenID, resumed.TokenID)
}

func TestEstablishRejectsRevokedToken(t *testing.T) {
	sessions, _ := newSessionUsecase(t)
	ctx := context.Background()

	first, err := sessions.Establish(ctx, "")
	require.NoError(t, err)
	require.NoError(t, sessions.Revoke(ctx, first.Identity(), first.TokenID))

	_, err = sessions.Establish(ctx, first.Token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestEstablishRejectsGarbageToken(t *testing.T) {
	sessions, _ := newSessionUsecase(t)
	_, err := sessions.Establish(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEstablishFailsWhenRedisIsDown(t *testing.T) {
	sessions, mr := newSessionUsecase(t)
	mr.Close()

	_, err := sessions.Establish(context.Background(), "")
	assert.Error(t, err)
}

func TestEstablishSurvivesAuditFailure(t *testing.T) {
	db := testutil.NewDB(t)
	_, client := testutil.NewRedis(t)
	log := testutil.NewLogger()
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", SessionExpiry: time.Hour})
	audit := service.NewAuditService(log, repository.NewAuditLogRepository())
	sessions := NewSessionUsecase(db, log, "app", jwtService, client, audit)

	failOn(t, db, "create", "audit_logs")

	session, err := sessions.Establish(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
}
