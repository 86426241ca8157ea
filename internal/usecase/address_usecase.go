package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
	repo "github.com/MohammedReshid1/furniture/internal/repository"
)

type AddressDTO struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	Line1      string `json:"address_line1"`
	Line2      string `json:"address_line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
	CreatedAt  string `json:"created_at"`
}

type AddressCreateRequest struct {
	Line1      string `json:"address_line1"`
	Line2      string `json:"address_line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

type AddressUpdateRequest struct {
	Line1      string `json:"address_line1"`
	Line2      string `json:"address_line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

type AddressUsecase struct {
	addresses repo.AddressRepository
}

func NewAddressUsecase(addresses repo.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

func (u *AddressUsecase) List(ctx context.Context, userID int64) ([]AddressDTO, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}

	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]AddressDTO, 0, len(list))
	for i := range list {
		out = append(out, toAddressDTO(&list[i]))
	}
	return out, nil
}

func (u *AddressUsecase) Get(ctx context.Context, userID int64, addressID int64) (AddressDTO, error) {
	if userID <= 0 {
		return AddressDTO{}, ErrUnauthorized
	}
	if addressID <= 0 {
		return AddressDTO{}, ErrValidation
	}

	a, err := u.addresses.FindByID(ctx, addressID)
	if errors.Is(err, repo.ErrNotFound) {
		return AddressDTO{}, ErrNotFound
	}
	if err != nil {
		return AddressDTO{}, ErrInternal
	}
	//他人の住所は「存在しない扱い」
	if a.UserID != userID {
		return AddressDTO{}, ErrNotFound
	}

	return toAddressDTO(&a), nil
}

func (u *AddressUsecase) Create(ctx context.Context, userID int64, req AddressCreateRequest) (AddressDTO, error) {
	if userID <= 0 {
		return AddressDTO{}, ErrUnauthorized
	}

	//入力チェック
	if req.Line1 == "" || req.City == "" || req.State == "" || req.PostalCode == "" || req.Country == "" {
		return AddressDTO{}, ErrValidation
	}

	now := time.Now()

	a := model.Address{
		UserID:     userID,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := u.addresses.Create(ctx, a)
	if err != nil {
		return AddressDTO{}, ErrInternal
	}

	//defaultはユーザーごとに1つ。新しいdefaultが入ったら他を降ろす。
	if created.IsDefault {
		if err := u.addresses.UnsetDefaultsExcept(ctx, userID, created.ID); err != nil {
			return AddressDTO{}, ErrInternal
		}
	}

	return toAddressDTO(&created), nil
}

func (u *AddressUsecase) Update(ctx context.Context, userID int64, addressID int64, req AddressUpdateRequest) (AddressDTO, error) {
	if userID <= 0 {
		return AddressDTO{}, ErrUnauthorized
	}
	if addressID <= 0 {
		return AddressDTO{}, ErrValidation
	}
	if req.Line1 == "" || req.City == "" || req.State == "" || req.PostalCode == "" || req.Country == "" {
		return AddressDTO{}, ErrValidation
	}

	//所有チェック（本人のみ）
	existing, err := u.addresses.FindByID(ctx, addressID)
	if errors.Is(err, repo.ErrNotFound) {
		return AddressDTO{}, ErrNotFound
	}
	if err != nil {
		return AddressDTO{}, ErrInternal
	}
	if existing.UserID != userID {
		return AddressDTO{}, ErrNotFound
	}

	a := model.Address{
		ID:         addressID,
		UserID:     userID,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
		UpdatedAt:  time.Now(),
	}

	if err := u.addresses.Update(ctx, a); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return AddressDTO{}, ErrNotFound
		}
		return AddressDTO{}, ErrInternal
	}

	if req.IsDefault {
		if err := u.addresses.UnsetDefaultsExcept(ctx, userID, addressID); err != nil {
			return AddressDTO{}, ErrInternal
		}
	}

	a.CreatedAt = existing.CreatedAt
	return toAddressDTO(&a), nil
}

func (u *AddressUsecase) Delete(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if addressID <= 0 {
		return ErrValidation
	}

	existing, err := u.addresses.FindByID(ctx, addressID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return ErrInternal
	}
	if existing.UserID != userID {
		return ErrNotFound
	}

	if err := u.addresses.Delete(ctx, addressID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		//注文が参照中などで削除できない
		return ErrConflict
	}

	return nil
}

// デフォルト住所の切り替え。
func (u *AddressUsecase) SetDefault(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if addressID <= 0 {
		return ErrValidation
	}

	existing, err := u.addresses.FindByID(ctx, addressID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return ErrInternal
	}
	if existing.UserID != userID {
		return ErrNotFound
	}

	existing.IsDefault = true
	existing.UpdatedAt = time.Now()
	if err := u.addresses.Update(ctx, existing); err != nil {
		return ErrInternal
	}

	if err := u.addresses.UnsetDefaultsExcept(ctx, userID, addressID); err != nil {
		return ErrInternal
	}

	return nil
}

func toAddressDTO(a *model.Address) AddressDTO {
	return AddressDTO{
		ID:         a.ID,
		UserID:     a.UserID,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}
