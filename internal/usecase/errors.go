package usecase

import (
	"errors"
	"fmt"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
)

var (
	//400 入力不足
	ErrValidation = errors.New("validation error")
	//401 認証失敗
	ErrUnauthorized = errors.New("unauthorized")
	//403　権限
	ErrForbidden = errors.New("forbidden")
	//404 対象が無い（他人の所有物も「存在しない扱い」）
	ErrNotFound = errors.New("not found")
	//400 住所が無い・他人の住所
	ErrInvalidAddress = errors.New("invalid address or address doesn't belong to current user")
	//409 一意制約の衝突（email / slug / レビュー済み）
	ErrConflict = errors.New("conflict")
	//401 再利用されてしまっている
	ErrSecurityIncident = errors.New("security incident")
	//500
	ErrInternal = errors.New("internal error")
)

// 在庫不足。利用可能数と要求数と商品名を必ず持たせる。
type InsufficientStockError struct {
	ProductName string
	Available   int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product '%s'. available: %d, requested: %d",
		e.ProductName, e.Available, e.Requested)
}

func AsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var ise *InsufficientStockError
	ok := errors.As(err, &ise)
	return ise, ok
}

// 許可されない注文ステータス変更。
type InvalidTransitionError struct {
	Status model.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot cancel order with status '%s'", e.Status)
}

func AsInvalidTransition(err error) (*InvalidTransitionError, bool) {
	var ite *InvalidTransitionError
	ok := errors.As(err, &ite)
	return ite, ok
}

// HTTPステータス付きのエラー。上のどれにも当てはまらない個別メッセージ用。
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
