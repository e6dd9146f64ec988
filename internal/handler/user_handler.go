package handler

import (
	"starwars-api/internal/dto"
	"starwars-api/internal/service"
	"starwars-api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserHandler 用户处理器
type UserHandler struct {
	userService *service.UserService
	logger      logrus.FieldLogger
}

// NewUserHandler 创建用户处理器
func NewUserHandler(userService *service.UserService, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// ListUsers 获取所有用户
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		HandleServiceError(c, h.logger, err)
		return
	}
	utils.Success(c, dto.NewUserResponses(users))
}

// GetUser 获取单个用户
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, h.logger, err)
		return
	}
	utils.Success(c, dto.NewUserResponse(user))
}

// CreateUser 创建用户
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		HandleServiceError(c, h.logger, err)
		return
	}
	utils.Success(c, dto.NewUserResponse(user))
}

// UpdateUser 部分更新用户
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, &req)
	if err != nil {
		HandleServiceError(c, h.logger, err)
		return
	}
	utils.Success(c, dto.NewUserResponse(user))
}

// DeleteUser 删除用户及其收藏
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		HandleServiceError(c, h.logger, err)
		return
	}
	utils.Success(c, "User deleted")
}
