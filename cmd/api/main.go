package main

import (
	"stockmanager/internal/config"
	"stockmanager/internal/domain/model"
	"stockmanager/internal/handler"
	"stockmanager/internal/infra/db"
	infraRepo "stockmanager/internal/infra/repository"
	"stockmanager/internal/server"
	"stockmanager/internal/usecase"
	"stockmanager/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .envが無ければ環境変数だけで動く
	_ = godotenv.Load()

	log := logger.Must(logger.New())
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.Stock{},
		&model.Sale{},
	); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	stockRepo := infraRepo.NewStockGormRepository(gormDB)
	salesRepo := infraRepo.NewSalesGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//識別キー単位の排他
	keys := usecase.NewKeyMutex()

	//Usecase生成
	salesUC := usecase.NewSalesUsecase(txManager, salesRepo, stockRepo, keys)
	stockUC := usecase.NewStockUsecase(txManager, stockRepo, keys)
	uploadUC := usecase.NewUploadUsecase(txManager, keys)

	//Handler生成
	stockH := handler.NewStockHandler(stockUC, uploadUC)
	salesH := handler.NewSalesHandler(salesUC)

	//Server起動
	e := server.New(logger.Named(log, "http"))
	server.RegisterRoutes(e, cfg, stockH, salesH)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.GoEnv))
	if err := server.Start(e, addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
