package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/MohammedReshid1/furniture/internal/config"
	"github.com/MohammedReshid1/furniture/internal/domain/model"
	"github.com/MohammedReshid1/furniture/internal/handler"
	"github.com/MohammedReshid1/furniture/internal/infra/db"
	infraRepo "github.com/MohammedReshid1/furniture/internal/infra/repository"
	"github.com/MohammedReshid1/furniture/internal/server"
	"github.com/MohammedReshid1/furniture/internal/usecase"
	"github.com/MohammedReshid1/furniture/internal/validator"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load failed")
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect failed")
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Address{},
		&model.Category{},
		&model.Product{},
		&model.ProductCategory{},
		&model.Review{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
	); err != nil {
		logger.Fatal().Err(err).Msg("auto migrate failed")
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	authValidator := validator.NewAuthValidator(userRepo)
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo, authValidator)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, auditRepo)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, productRepo)
	cartUC := usecase.NewCartUsecase(cartItemRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager, addressRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC, cfg),
		User:         handler.NewUserHandler(authUC, addressUC),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Review:       handler.NewReviewHandler(reviewUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
	}

	e := server.New(cfg, logger, handlers, userRepo)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("starting server")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
