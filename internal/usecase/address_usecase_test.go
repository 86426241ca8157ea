package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
	repo "github.com/MohammedReshid1/furniture/internal/repository"
	"github.com/MohammedReshid1/furniture/internal/usecase"
)

type AddrRepoMock struct{ mock.Mock }

func (m *AddrRepoMock) Create(ctx context.Context, address model.Address) (model.Address, error) {
	args := m.Called(ctx, address)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddrRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Address)
	return list, args.Error(1)
}

func (m *AddrRepoMock) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddrRepoMock) Update(ctx context.Context, address model.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *AddrRepoMock) Delete(ctx context.Context, addressID int64) error {
	args := m.Called(ctx, addressID)
	return args.Error(0)
}

func (m *AddrRepoMock) UnsetDefaultsExcept(ctx context.Context, userID int64, keepAddressID int64) error {
	args := m.Called(ctx, userID, keepAddressID)
	return args.Error(0)
}

func validAddressReq(isDefault bool) usecase.AddressCreateRequest {
	return usecase.AddressCreateRequest{
		Line1:      "1 Main St",
		City:       "Springfield",
		State:      "IL",
		PostalCode: "62701",
		Country:    "US",
		IsDefault:  isDefault,
	}
}

func TestAddressUsecase_Create_Default_UnsetsOthers(t *testing.T) {
	ctx := context.Background()

	addrs := new(AddrRepoMock)
	addrs.On("Create", mock.Anything, mock.MatchedBy(func(a model.Address) bool {
		return a.UserID == 7 && a.IsDefault
	})).Return(model.Address{ID: 30, UserID: 7, IsDefault: true}, nil)
	//新しいdefault以外は全て降ろす
	addrs.On("UnsetDefaultsExcept", mock.Anything, int64(7), int64(30)).Return(nil)

	uc := usecase.NewAddressUsecase(addrs)

	out, err := uc.Create(ctx, 7, validAddressReq(true))
	assert.NoError(t, err)
	assert.True(t, out.IsDefault)
	addrs.AssertExpectations(t)
}

func TestAddressUsecase_Create_NonDefault_KeepsOthers(t *testing.T) {
	ctx := context.Background()

	addrs := new(AddrRepoMock)
	addrs.On("Create", mock.Anything, mock.Anything).Return(model.Address{ID: 31, UserID: 7}, nil)

	uc := usecase.NewAddressUsecase(addrs)

	_, err := uc.Create(ctx, 7, validAddressReq(false))
	assert.NoError(t, err)
	addrs.AssertNotCalled(t, "UnsetDefaultsExcept", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddressUsecase_Create_MissingFields(t *testing.T) {
	uc := usecase.NewAddressUsecase(new(AddrRepoMock))

	_, err := uc.Create(context.Background(), 7, usecase.AddressCreateRequest{Line1: "1 Main St"})
	assert.ErrorIs(t, err, usecase.ErrValidation)
}

func TestAddressUsecase_Update_ForeignAddress_NotFound(t *testing.T) {
	ctx := context.Background()

	addrs := new(AddrRepoMock)
	addrs.On("FindByID", mock.Anything, int64(30)).Return(model.Address{ID: 30, UserID: 99}, nil)

	uc := usecase.NewAddressUsecase(addrs)

	_, err := uc.Update(ctx, 7, 30, usecase.AddressUpdateRequest{
		Line1: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US",
	})
	assert.ErrorIs(t, err, usecase.ErrNotFound)
	addrs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAddressUsecase_SetDefault_UnsetsOthers(t *testing.T) {
	ctx := context.Background()

	addrs := new(AddrRepoMock)
	addrs.On("FindByID", mock.Anything, int64(30)).Return(model.Address{ID: 30, UserID: 7}, nil)
	addrs.On("Update", mock.Anything, mock.MatchedBy(func(a model.Address) bool {
		return a.ID == 30 && a.IsDefault
	})).Return(nil)
	addrs.On("UnsetDefaultsExcept", mock.Anything, int64(7), int64(30)).Return(nil)

	uc := usecase.NewAddressUsecase(addrs)

	assert.NoError(t, uc.SetDefault(ctx, 7, 30))
	addrs.AssertExpectations(t)
}

func TestAddressUsecase_Delete_Referenced_Conflict(t *testing.T) {
	ctx := context.Background()

	addrs := new(AddrRepoMock)
	addrs.On("FindByID", mock.Anything, int64(30)).Return(model.Address{ID: 30, UserID: 7}, nil)
	//注文が参照しているのでFK違反
	addrs.On("Delete", mock.Anything, int64(30)).Return(assert.AnError)

	uc := usecase.NewAddressUsecase(addrs)

	err := uc.Delete(ctx, 7, 30)
	assert.ErrorIs(t, err, usecase.ErrConflict)
}

func TestAddressUsecase_Get_NotFound(t *testing.T) {
	addrs := new(AddrRepoMock)
	addrs.On("FindByID", mock.Anything, int64(30)).Return(model.Address{}, repo.ErrNotFound)

	uc := usecase.NewAddressUsecase(addrs)

	_, err := uc.Get(context.Background(), 7, 30)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}
