package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/apperror"
	"skillmates-backend/pkg/auth"
	"skillmates-backend/pkg/logger"
	"skillmates-backend/pkg/security"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const invalidCredentials = "Invalid username/email or password"

type authUsecase struct {
	userRepo domain.UserRepository
	issuer   *auth.Issuer
	tracker  *security.LoginTracker
	secLog   *security.SecurityLogger
	validate *validator.Validate
	now      func() time.Time
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	issuer *auth.Issuer,
	tracker *security.LoginTracker,
	secLog *security.SecurityLogger,
	validate *validator.Validate,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		issuer:   issuer,
		tracker:  tracker,
		secLog:   secLog,
		validate: validate,
		now:      time.Now,
	}
}

func (u *authUsecase) Signup(ctx context.Context, req domain.SignupRequest, meta domain.ClientMeta) (*domain.AuthResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(u.validate, req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := u.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         domain.UserRoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := &domain.Profile{UserID: user.ID, Username: user.Username}
	profile.ApplyDefaults()

	if err := u.userRepo.Create(ctx, user, profile); err != nil {
		return nil, wrapRepoErr(err, "User not found")
	}

	u.secLog.Log(ctx, security.SecurityEvent{
		Event:        security.EventSignup,
		SubjectType:  "user_id",
		SubjectValue: user.ID,
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		RequestID:    meta.RequestID,
	})
	return u.issue(user)
}

func (u *authUsecase) Login(ctx context.Context, req domain.LoginRequest, meta domain.ClientMeta) (*domain.AuthResult, error) {
	req.Identifier = strings.TrimSpace(req.Identifier)
	if err := validate(u.validate, req); err != nil {
		return nil, err
	}

	blocked, err := u.tracker.IsBlocked(ctx, req.Identifier)
	if err != nil {
		logger.Log.Warn("login tracker unavailable", "error", err)
	}
	if blocked {
		u.secLog.LogLoginBlocked(ctx, req.Identifier, meta.IP, meta.UserAgent, meta.RequestID)
		return nil, apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
	}

	user, err := u.userRepo.GetByIdentifier(ctx, req.Identifier)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	ok := false
	if user != nil {
		if ok, err = auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	if !ok {
		return nil, u.failLogin(ctx, req.Identifier, meta)
	}

	if err := u.tracker.ClearAttempts(ctx, req.Identifier, meta.IP); err != nil {
		logger.Log.Warn("failed to clear login attempts", "error", err)
	}
	u.secLog.LogLoginSuccess(ctx, user.ID, meta.IP, meta.UserAgent, meta.RequestID)
	return u.issue(user)
}

func (u *authUsecase) failLogin(ctx context.Context, identifier string, meta domain.ClientMeta) error {
	blocked, _, err := u.tracker.RecordFailedAttempt(ctx, identifier, meta.IP, meta.UserAgent, meta.RequestID)
	if err != nil {
		logger.Log.Warn("failed to record login attempt", "error", err)
	}
	if blocked {
		return apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
	}
	return apperror.Unauthorized(invalidCredentials)
}

func (u *authUsecase) issue(user *domain.User) (*domain.AuthResult, error) {
	token, exp, err := u.issuer.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AuthResult{Token: token, ExpiresAt: exp, User: user}, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	ctxUserID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if ctxUserID != id {
		return nil, apperror.Forbidden("You can only view your own account")
	}

	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapRepoErr(err, "User not found")
	}
	return user, nil
}
