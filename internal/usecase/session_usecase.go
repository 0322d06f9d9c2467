package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"family-health-dashboard/internal/domain/entity"
	"family-health-dashboard/internal/service"
	"family-health-dashboard/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// Session is an established identity plus the token that resumes it.
type Session struct {
	Owner     entity.Owner
	Token     string
	TokenID   string
	Anonymous bool
	ExpiresIn int64
}

func (s *Session) Identity() string {
	return s.Owner.UserID
}

type SessionUsecase interface {
	// Establish resumes the identity carried by token, or issues a fresh
	// anonymous one when token is empty.
	Establish(ctx context.Context, token string) (*Session, error)
	Revoke(ctx context.Context, identity, tokenID string) error
	IsLive(ctx context.Context, identity, tokenID string) (bool, error)
}

type sessionUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	deploymentID string
	jwtService   *jwt.JWTService
	redisClient  *redis.Client
	auditService service.AuditService
}

func NewSessionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	deploymentID string,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
	auditService service.AuditService,
) SessionUsecase {
	return &sessionUsecase{
		db:           db,
		log:          log,
		deploymentID: deploymentID,
		jwtService:   jwtService,
		redisClient:  redisClient,
		auditService: auditService,
	}
}

func sessionKey(identity, tokenID string) string {
	return fmt.Sprintf("session_token:%s:%s", identity, tokenID)
}

func (u *sessionUsecase) Establish(ctx context.Context, token string) (*Session, error) {
	if token != "" {
		return u.resume(ctx, token)
	}

	identity := uuid.New().String()
	signed, tokenID, err := u.jwtService.GenerateSessionToken(identity, true)
	if err != nil {
		u.log.Warnf("Failed to generate session token: %+v", err)
		return nil, err
	}

	expiry := u.jwtService.GetSessionExpiry()
	if err := u.redisClient.Set(ctx, sessionKey(identity, tokenID), "valid", expiry).Err(); err != nil {
		u.log.Warnf("Failed to store session token in Redis: %+v", err)
		return nil, err
	}

	session := &Session{
		Owner:     entity.Owner{DeploymentID: u.deploymentID, UserID: identity},
		Token:     signed,
		TokenID:   tokenID,
		Anonymous: true,
		ExpiresIn: int64(expiry.Seconds()),
	}

	// The activity trail is best effort; a session never fails on it.
	if err := u.auditService.Log(ctx, u.db, session.Owner, entity.AuditActionSessionOpen, entity.JSON{"anonymous": true}); err != nil {
		u.log.Debugf("Failed to audit session open: %+v", err)
	}

	return session, nil
}

func (u *sessionUsecase) resume(ctx context.Context, token string) (*Session, error) {
	claims, err := u.jwtService.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	live, err := u.IsLive(ctx, claims.Identity, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, ErrTokenRevoked
	}

	var expiresIn int64
	if claims.ExpiresAt != nil {
		expiresIn = int64(time.Until(claims.ExpiresAt.Time).Seconds())
	}

	return &Session{
		Owner:     entity.Owner{DeploymentID: u.deploymentID, UserID: claims.Identity},
		Token:     token,
		TokenID:   claims.TokenID,
		Anonymous: claims.Anonymous,
		ExpiresIn: expiresIn,
	}, nil
}

func (u *sessionUsecase) IsLive(ctx context.Context, identity, tokenID string) (bool, error) {
	exists, err := u.redisClient.Exists(ctx, sessionKey(identity, tokenID)).Result()
	if err != nil {
		u.log.Warnf("Failed to check session token in Redis: %+v", err)
		return false, err
	}
	return exists > 0, nil
}

func (u *sessionUsecase) Revoke(ctx context.Context, identity, tokenID string) error {
	if err := u.redisClient.Del(ctx, sessionKey(identity, tokenID)).Err(); err != nil {
		u.log.Warnf("Failed to delete session token: %+v", err)
		return err
	}
	return nil
}
