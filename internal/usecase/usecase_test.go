package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"skillmates-backend/internal/domain"
	"skillmates-backend/internal/usecase"
	"skillmates-backend/pkg/apperror"
	"skillmates-backend/pkg/auth"
	"skillmates-backend/pkg/security"
	"skillmates-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func appCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func newAuthUsecase(repo domain.UserRepository, maxAttempts int) (domain.AuthUsecase, *auth.Issuer) {
	secLog := security.NewSecurityLogger(zap.NewNop(), "test", "test")
	tracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   maxAttempts,
		AttemptWindow: time.Minute,
		BlockDuration: time.Minute,
	}, nil, secLog)
	issuer := auth.NewIssuer("test-secret", time.Hour, nil)
	return usecase.NewAuthUsecase(repo, issuer, tracker, secLog, validation.New()), issuer
}

func TestSignup(t *testing.T) {
	meta := domain.ClientMeta{IP: "127.0.0.1"}

	t.Run("Should reject mismatched passwords", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, _ := newAuthUsecase(repo, 5)

		_, err := uc.Signup(context.Background(), domain.SignupRequest{
			Username: "sam", Email: "sam@example.com", Password: "secret1", ConfirmPassword: "secret2",
		}, meta)
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should reject short password", func(t *testing.T) {
		uc, _ := newAuthUsecase(new(MockUserRepo), 5)
		_, err := uc.Signup(context.Background(), domain.SignupRequest{
			Username: "sam", Email: "sam@example.com", Password: "12345", ConfirmPassword: "12345",
		}, meta)
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})

	t.Run("Should create user with learner profile and issue token", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, issuer := newAuthUsecase(repo, 5)

		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User"), mock.AnythingOfType("*domain.Profile")).
			Return(nil).
			Run(func(args mock.Arguments) {
				u := args.Get(1).(*domain.User)
				p := args.Get(2).(*domain.Profile)
				assert.Equal(t, "sam@example.com", u.Email)
				assert.NotEqual(t, "secret1", u.PasswordHash)
				assert.Equal(t, u.ID, p.UserID)
				assert.Equal(t, domain.RoleLearner, p.Role)
				assert.Equal(t, "sam", p.Name)
			})

		res, err := uc.Signup(context.Background(), domain.SignupRequest{
			Username: " sam ", Email: "Sam@Example.com", Password: "secret1", ConfirmPassword: "secret1",
		}, meta)
		require.NoError(t, err)

		claims, err := issuer.Parse(res.Token)
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, claims.Subject)
		assert.Equal(t, "sam", claims.Username)
	})

	t.Run("Should pass through username conflict", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, _ := newAuthUsecase(repo, 5)
		repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(apperror.Conflict("Username is already taken"))

		_, err := uc.Signup(context.Background(), domain.SignupRequest{
			Username: "sam", Email: "sam@example.com", Password: "secret1", ConfirmPassword: "secret1",
		}, meta)
		assert.Equal(t, http.StatusConflict, appCode(t, err))
		assert.Contains(t, err.Error(), "Username")
	})
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	user := &domain.User{ID: "u1", Username: "sam", Email: "sam@example.com", PasswordHash: hash}
	meta := domain.ClientMeta{IP: "127.0.0.1"}

	t.Run("Should login by username or email", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, _ := newAuthUsecase(repo, 5)
		repo.On("GetByIdentifier", mock.Anything, "sam").Return(user, nil)
		repo.On("GetByIdentifier", mock.Anything, "sam@example.com").Return(user, nil)

		for _, id := range []string{"sam", "sam@example.com"} {
			res, err := uc.Login(context.Background(), domain.LoginRequest{Identifier: id, Password: "secret1"}, meta)
			require.NoError(t, err)
			assert.NotEmpty(t, res.Token)
		}
	})

	t.Run("Should not reveal whether the user exists", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, _ := newAuthUsecase(repo, 5)
		repo.On("GetByIdentifier", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)
		repo.On("GetByIdentifier", mock.Anything, "sam").Return(user, nil)

		_, errMissing := uc.Login(context.Background(), domain.LoginRequest{Identifier: "ghost", Password: "x"}, meta)
		_, errWrong := uc.Login(context.Background(), domain.LoginRequest{Identifier: "sam", Password: "wrong"}, meta)
		assert.Equal(t, http.StatusUnauthorized, appCode(t, errMissing))
		assert.Equal(t, errMissing.Error(), errWrong.Error())
	})

	t.Run("Should block after repeated failures", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, _ := newAuthUsecase(repo, 2)
		repo.On("GetByIdentifier", mock.Anything, "sam").Return(user, nil)

		_, err := uc.Login(context.Background(), domain.LoginRequest{Identifier: "sam", Password: "bad"}, meta)
		assert.Equal(t, http.StatusUnauthorized, appCode(t, err))

		_, err = uc.Login(context.Background(), domain.LoginRequest{Identifier: "sam", Password: "bad"}, meta)
		assert.Equal(t, http.StatusTooManyRequests, appCode(t, err))

		// Even the right password is refused while blocked.
		_, err = uc.Login(context.Background(), domain.LoginRequest{Identifier: "sam", Password: "secret1"}, meta)
		assert.Equal(t, http.StatusTooManyRequests, appCode(t, err))
	})
}

func TestGetCurrentUser(t *testing.T) {
	repo := new(MockUserRepo)
	uc, _ := newAuthUsecase(repo, 5)

	t.Run("Should fail safely when Context UserID is missing", func(t *testing.T) {
		_, err := uc.GetCurrentUser(context.Background(), "u1")
		assert.Equal(t, http.StatusUnauthorized, appCode(t, err))
	})

	t.Run("Should fail when Context UserID does not match", func(t *testing.T) {
		_, err := uc.GetCurrentUser(userCtx("u1"), "u2")
		assert.Equal(t, http.StatusForbidden, appCode(t, err))
	})

	t.Run("Should map missing user to 404", func(t *testing.T) {
		repo.On("GetByID", mock.Anything, "u3").Return(nil, domain.ErrNotFound)
		_, err := uc.GetCurrentUser(userCtx("u3"), "u3")
		assert.Equal(t, http.StatusNotFound, appCode(t, err))
	})
}

func TestHealthCheck(t *testing.T) {
	uc := usecase.NewHealthUsecase(pingFunc(func(context.Context) error { return nil }), nil)
	out := uc.Check(context.Background())
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "disabled", out["redis"])

	uc = usecase.NewHealthUsecase(
		pingFunc(func(context.Context) error { return nil }),
		func(context.Context) error { return errors.New("down") },
	)
	out = uc.Check(context.Background())
	assert.Equal(t, "degraded", out["status"])
	assert.Equal(t, "unavailable", out["redis"])
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
