package handler

import (
	"errors"
	"fmt"
	"strconv"

	"starwars-api/internal/service"
	"starwars-api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HandleServiceError 把服务层错误映射为 HTTP 响应
func HandleServiceError(c *gin.Context, logger logrus.FieldLogger, err error) {
	var svcErr *service.Error
	switch {
	case errors.Is(err, service.ErrNotFound) && errors.As(err, &svcErr):
		utils.NotFound(c, svcErr.Message)
	case errors.Is(err, service.ErrConflict) && errors.As(err, &svcErr):
		utils.BadRequest(c, svcErr.Message)
	case errors.Is(err, service.ErrValidation) && errors.As(err, &svcErr):
		utils.BadRequest(c, svcErr.Message)
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("请求处理失败")
		utils.InternalError(c, "Internal server error")
	}
}

// parseID 解析路径中的数字 ID，失败时直接返回 400
func parseID(c *gin.Context, param, entity string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		utils.BadRequest(c, fmt.Sprintf("Invalid %s id", entity))
		return 0, false
	}
	return uint(id), true
}

// bindJSON 绑定请求体，失败时直接返回 400
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequest(c, utils.FormatBindingError(err))
		return false
	}
	return true
}
