package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

// SessionServiceImpl implements domain.SessionService: it mints token pairs,
// persists hashed refresh sessions and rotates them on every refresh.
type SessionServiceImpl struct {
	sessionRepo domain.SessionRepository
	tokenSvc    domain.TokenService
	hasher      domain.SecretHasher
	logger      *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo domain.SessionRepository,
	tokenSvc domain.TokenService,
	hasher domain.SecretHasher,
	logger *zap.Logger,
) domain.SessionService {
	return &SessionServiceImpl{
		sessionRepo: sessionRepo,
		tokenSvc:    tokenSvc,
		hasher:      hasher,
		logger:      logger,
	}
}

// Issue implements domain.SessionService. The plaintext refresh token is
// returned to the caller exactly once; only its hash is persisted.
func (s *SessionServiceImpl) Issue(ctx context.Context, userID uint, device domain.DeviceInfo) (*domain.AuthTokens, error) {
	accessToken, err := s.tokenSvc.GenerateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tokenSvc.GenerateRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	refreshHash, err := s.hasher.Hash(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to hash refresh token: %w", err)
	}

	session := &domain.Session{
		UserID:      userID,
		RefreshHash: refreshHash,
		IPAddress:   device.IP,
		UserAgent:   device.UserAgent,
		ExpiresAt:   time.Now().Add(s.tokenSvc.RefreshTTL()),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &domain.AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenSvc.AccessTTL().Seconds()),
	}, nil
}

// Refresh implements domain.SessionService. Signature verification comes
// first and touches no storage. The presented token is then hash-compared
// against the user's sessions newest-first; the matched row is deleted and a
// fresh pair issued, so a refresh token never survives its first use. Two
// concurrent refreshes of the same token race on the delete; the loser sees
// no match and must re-authenticate.
func (s *SessionServiceImpl) Refresh(ctx context.Context, refreshToken string, device domain.DeviceInfo) (*domain.AuthTokens, error) {
	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	sessions, err := s.sessionRepo.FindByUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	var matched *domain.Session
	for i := range sessions {
		if s.hasher.Compare(sessions[i].RefreshHash, refreshToken) {
			matched = &sessions[i]
			break
		}
	}
	if matched == nil {
		s.logger.Info("refresh rejected: unknown or rotated token", zap.Uint("user_id", claims.UserID))
		return nil, domain.ErrTokenInvalid
	}
	if matched.ExpiresAt.Before(time.Now()) {
		s.logger.Info("refresh rejected: session expired", zap.Uint("user_id", claims.UserID))
		return nil, domain.ErrSessionExpired
	}

	if err := s.sessionRepo.Delete(ctx, matched.ID); err != nil {
		return nil, err
	}
	return s.Issue(ctx, claims.UserID, device)
}

// RevokeAll implements domain.SessionService. Logout revokes every session
// for the user, not just the current device.
func (s *SessionServiceImpl) RevokeAll(ctx context.Context, userID uint) error {
	return s.sessionRepo.DeleteByUser(ctx, userID)
}
