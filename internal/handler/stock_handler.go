package handler

import (
	"net/http"

	"stockmanager/internal/config"
	"stockmanager/internal/domain/model"
	"stockmanager/internal/middleware"
	"stockmanager/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// StockCreateRequest は在庫追加の入力。weightはクエリパラメータで受ける。
type StockCreateRequest struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	ContainerName string `json:"container_name"`
}

// StockUpdateRequest は部分更新の入力。nilの項目は触らない。
type StockUpdateRequest struct {
	Code          *string `json:"code"`
	Name          *string `json:"name"`
	Quantity      *int    `json:"quantity"`
	ContainerName *string `json:"container_name"`
	Weight        *string `json:"weight"`
}

// /api/v1/stock をまとめる
type StockHandler struct {
	uc       *usecase.StockUsecase
	uploadUC *usecase.UploadUsecase
}

// DI
func NewStockHandler(uc *usecase.StockUsecase, uploadUC *usecase.UploadUsecase) *StockHandler {
	return &StockHandler{uc: uc, uploadUC: uploadUC}
}

func (h *StockHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/v1/stock")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("/total", h.viewTotalStock)
	g.GET("/75KG", h.view75Stock)
	g.GET("/45KG", h.view45Stock)
	g.GET("/bags", h.viewBagStock)
	g.GET("/view/stock", h.viewStock)

	admin := g.Group("")
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/add/stock", h.addStock)
	admin.GET("/distinct/containers", h.distinctContainers)
	admin.POST("/upload/stock/file", h.uploadStockFile)
	admin.PATCH("/:id", h.updateStock)
	admin.DELETE("/:id", h.deleteStock)
}

func (h *StockHandler) viewTotalStock(c echo.Context) error {
	total, err := h.uc.TotalStock(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, GenericResponse{Message: "this is the total stock number", Data: total})
}

func (h *StockHandler) view75Stock(c echo.Context) error {
	return h.viewWeightTotal(c, model.WeightKG75)
}

func (h *StockHandler) view45Stock(c echo.Context) error {
	return h.viewWeightTotal(c, model.WeightKG45)
}

func (h *StockHandler) viewBagStock(c echo.Context) error {
	return h.viewWeightTotal(c, model.WeightBags)
}

func (h *StockHandler) viewWeightTotal(c echo.Context, weight model.Weight) error {
	total, err := h.uc.TotalStockByWeight(c.Request().Context(), weight)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, GenericResponse{
		Message: "this is the total stock number for " + string(weight),
		Data:    total,
	})
}

func (h *StockHandler) viewStock(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	var weight *model.Weight
	if v := c.QueryParam("weight"); v != "" {
		w, err := model.ParseWeight(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid weight"})
		}
		weight = &w
	}

	var containerName *string
	if v := c.QueryParam("containerName"); v != "" {
		containerName = &v
	}

	out, err := h.uc.ListStock(c.Request().Context(), usecase.ListStockInput{
		Page:          page,
		Limit:         limit,
		Weight:        weight,
		ContainerName: containerName,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "this is the current stock", Data: out})
}

func (h *StockHandler) addStock(c echo.Context) error {
	var req StockCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	weight, err := model.ParseWeight(c.QueryParam("weight"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid weight"})
	}

	out, err := h.uc.AddStock(c.Request().Context(), usecase.AddStockInput{
		Code:          req.Code,
		Name:          req.Name,
		Quantity:      req.Quantity,
		ContainerName: req.ContainerName,
		Weight:        weight,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, GenericResponse{Message: "stock added successfully", Data: out})
}

func (h *StockHandler) distinctContainers(c echo.Context) error {
	containers, err := h.uc.DistinctContainers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, GenericResponse{Message: "these are the stored containers", Data: containers})
}

func (h *StockHandler) uploadStockFile(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file required"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not read the uploaded file, please try again"})
	}
	defer f.Close()

	rows, err := rowsFromCSV(f)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	processed, err := h.uploadUC.ImportRows(c.Request().Context(), rows)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "stock upload completed", Data: processed})
}

func (h *StockHandler) updateStock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req StockUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	var weight *model.Weight
	if req.Weight != nil {
		w, err := model.ParseWeight(*req.Weight)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid weight"})
		}
		weight = &w
	}

	out, err := h.uc.UpdateStock(c.Request().Context(), id, usecase.UpdateStockInput{
		Code:          req.Code,
		Name:          req.Name,
		Quantity:      req.Quantity,
		ContainerName: req.ContainerName,
		Weight:        weight,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "stock updated successfully", Data: out})
}

func (h *StockHandler) deleteStock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteStock(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "stock content deleted successfully", Data: "deleted id: " + id.String()})
}
