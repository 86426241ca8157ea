package validator

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/MohammedReshid1/furniture/internal/repository"
	"github.com/MohammedReshid1/furniture/internal/usecase"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")

	// emailが既に使用済み
	ErrEmailAlreadyUsed = errors.New("email already used")

	// refresh tokenが不正
	ErrInvalidRefresh = errors.New("invalid refresh")
)

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, email string, password string, fullName string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" || strings.TrimSpace(fullName) == "" {
		return ErrInvalidInput
	}

	// email形式
	if !isEmailLike(email) {
		return ErrInvalidInput
	}

	// パスワード最低文字数（8）
	if len(password) < 8 {
		return ErrInvalidInput
	}

	// email重複チェック（DBが必要）
	u, err := v.users.FindByEmail(ctx, email)
	if err == nil && u != nil {
		return ErrEmailAlreadyUsed
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return ErrInvalidInput
	}

	if !isEmailLike(email) {
		return ErrInvalidInput
	}

	return nil
}

// refresh 入力を検証
func (v *authValidator) ValidateRefresh(ctx context.Context, refreshToken string, userAgent string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return ErrInvalidRefresh
	}

	return nil
}

// logout 入力を検証
func (v *authValidator) ValidateLogout(ctx context.Context) error {
	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	re := regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	return re.MatchString(s)
}
