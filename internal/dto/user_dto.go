package dto

import "starwars-api/internal/models"

// CreateUserRequest 创建用户请求
// 指针字段配合 required 只检查字段是否出现
type CreateUserRequest struct {
	Email    *string `json:"email" binding:"required"`
	Password *string `json:"password" binding:"required"`
}

// UpdateUserRequest 更新用户请求，只更新出现的字段
type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	IsActive *bool   `json:"is_active"`
}

// UserResponse 用户信息，不包含密码
type UserResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// NewUserResponse 转换用户
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		IsActive: user.IsActive,
	}
}

// NewUserResponses 转换用户列表
func NewUserResponses(users []models.User) []UserResponse {
	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, NewUserResponse(&users[i]))
	}
	return resp
}
