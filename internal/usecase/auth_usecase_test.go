package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MohammedReshid1/furniture/internal/config"
	"github.com/MohammedReshid1/furniture/internal/domain/model"
	"github.com/MohammedReshid1/furniture/internal/usecase"
)

type AuthUserRepoMock struct{ mock.Mock }

func (m *AuthUserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *AuthUserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *AuthUserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *AuthUserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *AuthUserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type AuthRTRepoMock struct{ mock.Mock }

func (m *AuthRTRepoMock) Create(ctx context.Context, token *model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *AuthRTRepoMock) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	rt, _ := args.Get(0).(*model.RefreshToken)
	return rt, args.Error(1)
}

func (m *AuthRTRepoMock) MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	args := m.Called(ctx, tokenID, usedAt)
	return args.Error(0)
}

func (m *AuthRTRepoMock) Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error {
	args := m.Called(ctx, tokenID, revokedAt)
	return args.Error(0)
}

func (m *AuthRTRepoMock) DeleteAllByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// 常に通すvalidator。入力検証そのものはvalidator側のテストで見る。
type authValidatorOK struct{}

func (authValidatorOK) ValidateRegister(ctx context.Context, email, password, fullName string) error {
	return nil
}
func (authValidatorOK) ValidateLogin(ctx context.Context, email, password string) error { return nil }
func (authValidatorOK) ValidateRefresh(ctx context.Context, refreshToken, userAgent string) error {
	return nil
}
func (authValidatorOK) ValidateLogout(ctx context.Context) error { return nil }

func newAuthUC(users *AuthUserRepoMock, rtRepo *AuthRTRepoMock) *usecase.AuthUsecase {
	cfg := config.Config{JWTSecret: "test-secret"}
	return usecase.NewAuthUsecase(cfg, users, rtRepo, authValidatorOK{})
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

func activeUser(t *testing.T, password string) *model.User {
	return &model.User{
		ID:           7,
		Email:        "taro@example.com",
		FullName:     "Taro Yamada",
		PasswordHash: mustHash(t, password),
		Role:         model.RoleUser,
		TokenVersion: 2,
		IsActive:     true,
	}
}

func TestAuthUsecase_Register_Success(t *testing.T) {
	users := new(AuthUserRepoMock)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "taro@example.com" &&
			u.Role == model.RoleUser &&
			u.IsActive &&
			u.PasswordHash != "" && u.PasswordHash != "password123"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 7
	}).Return(nil)

	uc := newAuthUC(users, new(AuthRTRepoMock))

	res, err := uc.Register(context.Background(), usecase.AuthRegisterRequest{
		Email: "taro@example.com", Password: "password123", FullName: "Taro Yamada",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), res.User.ID)
	assert.Equal(t, "taro@example.com", res.User.Email)
	users.AssertExpectations(t)
}

func TestAuthUsecase_Register_DuplicateEmail_Conflict(t *testing.T) {
	users := new(AuthUserRepoMock)
	users.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	uc := newAuthUC(users, new(AuthRTRepoMock))

	_, err := uc.Register(context.Background(), usecase.AuthRegisterRequest{
		Email: "taro@example.com", Password: "password123", FullName: "Taro Yamada",
	})
	assert.ErrorIs(t, err, usecase.ErrConflict)
}

func TestAuthUsecase_Login_Success(t *testing.T) {
	user := activeUser(t, "password123")

	users := new(AuthUserRepoMock)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(user, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.LastLoginAt != nil
	})).Return(nil)

	rtRepo := new(AuthRTRepoMock)
	rtRepo.On("Create", mock.Anything, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		return rt.UserID == 7 && rt.ID != "" && rt.TokenHash != "" &&
			rt.UserAgent == "test-agent" && rt.ExpiresAt.After(time.Now())
	})).Return(nil)

	uc := newAuthUC(users, rtRepo)

	res, err := uc.Login(context.Background(), usecase.AuthLoginRequest{
		Email: "taro@example.com", Password: "password123",
	}, "test-agent")
	assert.NoError(t, err)
	assert.NotEmpty(t, res.Body.Token.AccessToken)
	assert.Equal(t, 2, res.Body.Token.TokenVersion)
	assert.NotEmpty(t, res.RefreshTokenPlain)
	assert.NotEmpty(t, res.CsrfTokenPlain)
	rtRepo.AssertExpectations(t)
}

func TestAuthUsecase_Login_WrongPassword_Unauthorized(t *testing.T) {
	users := new(AuthUserRepoMock)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(activeUser(t, "password123"), nil)

	uc := newAuthUC(users, new(AuthRTRepoMock))

	_, err := uc.Login(context.Background(), usecase.AuthLoginRequest{
		Email: "taro@example.com", Password: "wrong-password",
	}, "test-agent")
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)
}

func TestAuthUsecase_Login_InactiveUser_Forbidden(t *testing.T) {
	user := activeUser(t, "password123")
	user.IsActive = false

	users := new(AuthUserRepoMock)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(user, nil)

	uc := newAuthUC(users, new(AuthRTRepoMock))

	_, err := uc.Login(context.Background(), usecase.AuthLoginRequest{
		Email: "taro@example.com", Password: "password123",
	}, "test-agent")
	assert.ErrorIs(t, err, usecase.ErrForbidden)
}

func TestAuthUsecase_Refresh_Rotation_Success(t *testing.T) {
	user := activeUser(t, "password123")

	users := new(AuthUserRepoMock)
	users.On("FindByID", mock.Anything, int64(7)).Return(user, nil)

	rtRepo := new(AuthRTRepoMock)
	rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(&model.RefreshToken{
		ID:        "old-token-id",
		UserID:    7,
		UserAgent: "test-agent",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	rtRepo.On("MarkUsed", mock.Anything, "old-token-id", mock.Anything).Return(nil)
	rtRepo.On("Create", mock.Anything, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		return rt.UserID == 7 && rt.ID != "old-token-id"
	})).Return(nil)

	uc := newAuthUC(users, rtRepo)

	res, err := uc.Refresh(context.Background(), "refresh-plain", "test-agent")
	assert.NoError(t, err)
	assert.NotEmpty(t, res.Body.AccessToken)
	assert.NotEmpty(t, res.RefreshTokenPlain)
	rtRepo.AssertExpectations(t)
}

func TestAuthUsecase_Refresh_Expired_Revokes(t *testing.T) {
	rtRepo := new(AuthRTRepoMock)
	rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(&model.RefreshToken{
		ID:        "old-token-id",
		UserID:    7,
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)
	rtRepo.On("Revoke", mock.Anything, "old-token-id", mock.Anything).Return(nil)

	uc := newAuthUC(new(AuthUserRepoMock), rtRepo)

	_, err := uc.Refresh(context.Background(), "refresh-plain", "test-agent")
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	rtRepo.AssertExpectations(t)
}

func TestAuthUsecase_Refresh_Replay_DeletesAllSessions(t *testing.T) {
	used := time.Now().Add(-time.Minute)

	rtRepo := new(AuthRTRepoMock)
	rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(&model.RefreshToken{
		ID:        "old-token-id",
		UserID:    7,
		ExpiresAt: time.Now().Add(time.Hour),
		UsedAt:    &used,
	}, nil)
	rtRepo.On("DeleteAllByUserID", mock.Anything, int64(7)).Return(nil)

	uc := newAuthUC(new(AuthUserRepoMock), rtRepo)

	_, err := uc.Refresh(context.Background(), "refresh-plain", "test-agent")
	assert.ErrorIs(t, err, usecase.ErrSecurityIncident)
	rtRepo.AssertExpectations(t)
	rtRepo.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUsecase_Refresh_UserAgentMismatch_DeletesAllSessions(t *testing.T) {
	rtRepo := new(AuthRTRepoMock)
	rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(&model.RefreshToken{
		ID:        "old-token-id",
		UserID:    7,
		UserAgent: "original-agent",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	rtRepo.On("DeleteAllByUserID", mock.Anything, int64(7)).Return(nil)

	uc := newAuthUC(new(AuthUserRepoMock), rtRepo)

	_, err := uc.Refresh(context.Background(), "refresh-plain", "another-agent")
	assert.ErrorIs(t, err, usecase.ErrSecurityIncident)
	rtRepo.AssertExpectations(t)
}

func TestAuthUsecase_UpdateProfile_PasswordChange_InvalidatesSessions(t *testing.T) {
	user := activeUser(t, "password123")

	users := new(AuthUserRepoMock)
	users.On("FindByID", mock.Anything, int64(7)).Return(user, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)
	users.On("IncrementTokenVersion", mock.Anything, int64(7)).Return(nil)

	rtRepo := new(AuthRTRepoMock)
	rtRepo.On("DeleteAllByUserID", mock.Anything, int64(7)).Return(nil)

	uc := newAuthUC(users, rtRepo)

	newPassword := "new-password-456"
	dto, err := uc.UpdateProfile(context.Background(), 7, usecase.UpdateProfileRequest{
		Password: &newPassword,
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, dto.TokenVersion)
	users.AssertExpectations(t)
	rtRepo.AssertExpectations(t)
}

func TestAuthUsecase_UpdateProfile_NameOnly_KeepsSessions(t *testing.T) {
	user := activeUser(t, "password123")

	users := new(AuthUserRepoMock)
	users.On("FindByID", mock.Anything, int64(7)).Return(user, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)

	rtRepo := new(AuthRTRepoMock)

	uc := newAuthUC(users, rtRepo)

	name := "Jiro Yamada"
	dto, err := uc.UpdateProfile(context.Background(), 7, usecase.UpdateProfileRequest{
		FullName: &name,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Jiro Yamada", dto.FullName)
	users.AssertNotCalled(t, "IncrementTokenVersion", mock.Anything, mock.Anything)
	rtRepo.AssertNotCalled(t, "DeleteAllByUserID", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Logout_RevokesRefreshToken(t *testing.T) {
	rtRepo := new(AuthRTRepoMock)
	rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(&model.RefreshToken{
		ID:     "token-id",
		UserID: 7,
	}, nil)
	rtRepo.On("Revoke", mock.Anything, "token-id", mock.Anything).Return(nil)

	uc := newAuthUC(new(AuthUserRepoMock), rtRepo)

	res, err := uc.Logout(context.Background(), "refresh-plain")
	assert.NoError(t, err)
	assert.Equal(t, "logout success", res.Message)
	rtRepo.AssertExpectations(t)
}
