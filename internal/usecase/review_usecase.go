package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
	repo "github.com/MohammedReshid1/furniture/internal/repository"
)

type ReviewUsecase struct {
	reviewRepo  repo.ReviewRepository
	productRepo repo.ProductRepository
}

func NewReviewUsecase(reviewRepo repo.ReviewRepository, productRepo repo.ProductRepository) *ReviewUsecase {
	return &ReviewUsecase{reviewRepo: reviewRepo, productRepo: productRepo}
}

type ReviewInput struct {
	Rating  int
	Comment string
}

// 1商品につき1ユーザー1件まで。2件目はconflict。
func (u *ReviewUsecase) Create(ctx context.Context, userID int64, productID int64, in ReviewInput) (model.Review, error) {
	if userID <= 0 {
		return model.Review{}, ErrUnauthorized
	}
	if productID <= 0 {
		return model.Review{}, ErrValidation
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, ErrValidation
	}

	//商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Review{}, ErrNotFound
	}
	if err != nil {
		return model.Review{}, ErrInternal
	}
	if !p.IsActive {
		return model.Review{}, ErrNotFound
	}

	//レビュー済みチェック
	if _, err := u.reviewRepo.FindByUserAndProduct(ctx, userID, productID); err == nil {
		return model.Review{}, ErrConflict
	} else if !errors.Is(err, repo.ErrNotFound) {
		return model.Review{}, ErrInternal
	}

	now := time.Now()
	created, err := u.reviewRepo.Create(ctx, model.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Review{}, ErrInternal
	}
	return created, nil
}

func (u *ReviewUsecase) ListByProduct(ctx context.Context, productID int64, skip int, limit int) ([]model.Review, error) {
	if productID <= 0 {
		return nil, ErrValidation
	}
	if skip < 0 || limit < 1 || limit > 100 {
		return nil, ErrValidation
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, ErrInternal
	}
	if !p.IsActive {
		return nil, ErrNotFound
	}

	list, err := u.reviewRepo.ListByProductID(ctx, productID, skip, limit)
	if err != nil {
		return nil, ErrInternal
	}
	return list, nil
}

// 自分のレビューだけ更新できる。
func (u *ReviewUsecase) Update(ctx context.Context, userID int64, productID int64, reviewID int64, in ReviewInput) (model.Review, error) {
	if userID <= 0 {
		return model.Review{}, ErrUnauthorized
	}
	if productID <= 0 || reviewID <= 0 {
		return model.Review{}, ErrValidation
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, ErrValidation
	}

	rv, err := u.reviewRepo.FindByID(ctx, reviewID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Review{}, ErrNotFound
	}
	if err != nil {
		return model.Review{}, ErrInternal
	}
	if rv.ProductID != productID || rv.UserID != userID {
		return model.Review{}, ErrNotFound
	}

	rv.Rating = in.Rating
	rv.Comment = in.Comment
	rv.UpdatedAt = time.Now()

	if err := u.reviewRepo.Update(ctx, rv); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Review{}, ErrNotFound
		}
		return model.Review{}, ErrInternal
	}
	return rv, nil
}

// 削除は本人か管理者。
func (u *ReviewUsecase) Delete(ctx context.Context, userID int64, isAdmin bool, productID int64, reviewID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if productID <= 0 || reviewID <= 0 {
		return ErrValidation
	}

	rv, err := u.reviewRepo.FindByID(ctx, reviewID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return ErrInternal
	}
	if rv.ProductID != productID {
		return ErrNotFound
	}
	if !isAdmin && rv.UserID != userID {
		return ErrNotFound
	}

	if err := u.reviewRepo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}
