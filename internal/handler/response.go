package handler

import (
	"net/http"

	"stockmanager/internal/usecase"

	"github.com/labstack/echo/v4"
)

// GenericResponse は {message, data} の共通レスポンス形。
type GenericResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// usecaseの分類つきエラーをHTTPステータスへ写す。
// 分類とメッセージだけがusecase側の保証で、ステータスはここで決める。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ue, ok := usecase.AsError(err); ok {
		return c.JSON(statusForKind(ue.Kind), ErrorResponse{Error: ue.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func statusForKind(kind usecase.ErrorKind) int {
	switch kind {
	case usecase.KindNotFound:
		return http.StatusNotFound
	case usecase.KindValidation:
		return http.StatusBadRequest
	case usecase.KindInsufficientStock, usecase.KindDuplicateIdentity:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
