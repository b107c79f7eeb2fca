package server

import (
	"stockmanager/internal/config"
	"stockmanager/internal/handler"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, stockH *handler.StockHandler, salesH *handler.SalesHandler) {
	stockH.RegisterRoutes(e, cfg)
	salesH.RegisterRoutes(e, cfg)
}
