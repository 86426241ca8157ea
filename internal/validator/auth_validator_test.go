package validator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
	"github.com/MohammedReshid1/furniture/internal/repository"
	"github.com/MohammedReshid1/furniture/internal/validator"
)

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *userRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *userRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *userRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestValidateRegister_OK(t *testing.T) {
	users := new(userRepoMock)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(nil, repository.ErrUserNotFound)

	v := validator.NewAuthValidator(users)

	err := v.ValidateRegister(context.Background(), "taro@example.com", "password123", "Taro Yamada")
	assert.NoError(t, err)
}

func TestValidateRegister_BadEmail(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock))

	cases := []string{"", "taro", "taro@", "@example.com", "taro example@example.com", "taro@example"}
	for _, email := range cases {
		err := v.ValidateRegister(context.Background(), email, "password123", "Taro Yamada")
		assert.ErrorIs(t, err, validator.ErrInvalidInput, "email=%q", email)
	}
}

func TestValidateRegister_ShortPassword(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock))

	err := v.ValidateRegister(context.Background(), "taro@example.com", "short", "Taro Yamada")
	assert.ErrorIs(t, err, validator.ErrInvalidInput)
}

func TestValidateRegister_EmailAlreadyUsed(t *testing.T) {
	users := new(userRepoMock)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{ID: 7}, nil)

	v := validator.NewAuthValidator(users)

	err := v.ValidateRegister(context.Background(), "taro@example.com", "password123", "Taro Yamada")
	assert.ErrorIs(t, err, validator.ErrEmailAlreadyUsed)
}

func TestValidateLogin_MissingPassword(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock))

	err := v.ValidateLogin(context.Background(), "taro@example.com", "")
	assert.ErrorIs(t, err, validator.ErrInvalidInput)
}

func TestValidateRefresh_EmptyToken(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock))

	err := v.ValidateRefresh(context.Background(), "  ", "test-agent")
	assert.ErrorIs(t, err, validator.ErrInvalidRefresh)
}
