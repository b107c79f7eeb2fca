package server

import (
	"stockmanager/internal/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// New はミドルウェア適用済みのechoインスタンスを作る。
func New(log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLogger(log))

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
