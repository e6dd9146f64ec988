package utils

import (
	"net/http"

	"starwars-api/internal/dto"

	"github.com/gin-gonic/gin"
)

// Success 200 响应，直接输出数据
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// MessageResponse 以 {message} 形式响应
func MessageResponse(c *gin.Context, code int, message string) {
	c.JSON(code, dto.MessageResponse{Message: message})
}

// ErrorResponse 错误响应并中止后续处理
func ErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, dto.MessageResponse{Message: message})
}

// BadRequest 400错误
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

// NotFound 404错误
func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message)
}

// InternalError 500错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, message)
}
