package handler

import (
	"net/http"
	"time"

	"stockmanager/internal/config"
	"stockmanager/internal/domain/model"
	"stockmanager/internal/middleware"
	"stockmanager/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// SaleCreateRequest は販売追加の入力。dateは YYYY-MM-DD、省略時は当日。
type SaleCreateRequest struct {
	Date          string          `json:"date"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Weight        string          `json:"weight"`
	ContainerName string          `json:"container_name"`
}

// SaleUpdateRequest は数量/単価の部分更新。最低どちらか一方。
type SaleUpdateRequest struct {
	Quantity *int             `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
}

// SalesFilterRequest は日付範囲（両端省略可）とページング。
type SalesFilterRequest struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// /api/v1/sales をまとめる
type SalesHandler struct {
	uc *usecase.SalesUsecase
}

// DI
func NewSalesHandler(uc *usecase.SalesUsecase) *SalesHandler {
	return &SalesHandler{uc: uc}
}

func (h *SalesHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/v1/sales")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/add", h.addSale)
	g.GET("/recent", h.recentSales)
	g.GET("/all", h.viewAllSales)
	g.POST("/filter", h.filterSales)
	g.GET("/article/name", h.getArticleName)

	admin := g.Group("")
	admin.Use(middleware.AdminRoleGuard())

	admin.PATCH("/:id", h.updateSale)
	admin.DELETE("/:id", h.deleteSale)
}

func (h *SalesHandler) addSale(c echo.Context) error {
	var req SaleCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	weight, err := model.ParseWeight(req.Weight)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid weight"})
	}

	var date time.Time
	if req.Date != "" {
		date, err = time.Parse(dateLayout, req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
		}
	}

	out, err := h.uc.AddSale(c.Request().Context(), usecase.AddSaleInput{
		Date:          date,
		Code:          req.Code,
		Name:          req.Name,
		Quantity:      req.Quantity,
		Price:         req.Price,
		Weight:        weight,
		ContainerName: req.ContainerName,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, GenericResponse{Message: "sales added successfully", Data: out})
}

func (h *SalesHandler) recentSales(c echo.Context) error {
	out, err := h.uc.RecentSales(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, GenericResponse{Message: "10 recent sales", Data: out})
}

func (h *SalesHandler) viewAllSales(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	out, err := h.uc.ListSales(c.Request().Context(), usecase.ListSalesInput{Page: page, Limit: limit})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "all sales in the database", Data: out})
}

func (h *SalesHandler) filterSales(c echo.Context) error {
	var req SalesFilterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	start, err := parseDateParam(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start_date"})
	}
	end, err := parseDateParam(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end_date"})
	}

	out, err := h.uc.FilterSales(c.Request().Context(), usecase.FilterSalesInput{
		Page:      req.Page,
		Limit:     req.Limit,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "filtered sales", Data: out})
}

func (h *SalesHandler) getArticleName(c echo.Context) error {
	name, err := h.uc.GetItemName(c.Request().Context(), c.QueryParam("articleCode"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, GenericResponse{Message: "item name", Data: name})
}

func (h *SalesHandler) updateSale(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SaleUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateSale(c.Request().Context(), id, usecase.UpdateSaleInput{
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "sale updated successfully", Data: out})
}

func (h *SalesHandler) deleteSale(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteSale(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "sale deleted successfully", Data: "deleted id: " + id.String()})
}

func parseDateParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
