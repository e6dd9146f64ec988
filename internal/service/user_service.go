package service

import (
	"context"
	"errors"
	"fmt"

	"starwars-api/internal/dto"
	"starwars-api/internal/models"
	"starwars-api/internal/repository"
	"starwars-api/internal/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService 用户服务
type UserService struct {
	db        *gorm.DB
	userRepo  *repository.UserRepository
	favorites *FavoriteService
	locker    Locker
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB, userRepo *repository.UserRepository, favorites *FavoriteService, locker Locker) *UserService {
	return &UserService{
		db:        db,
		userRepo:  userRepo,
		favorites: favorites,
		locker:    locker,
	}
}

// List 获取全部用户
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取用户列表失败: %w", err)
	}
	return users, nil
}

// Get 获取单个用户
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("获取用户失败: %w", err)
	}
	return user, nil
}

// Create 创建用户，密码只保存 bcrypt 哈希
func (s *UserService) Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	if req.Email == nil || req.Password == nil {
		return nil, newError(ErrValidation, "email and password are required")
	}

	hashedPassword, err := hashPassword(*req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        *req.Email,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}

	err = s.userRepo.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEntry) {
		return nil, newError(ErrConflict, "Email %s is already registered", user.Email)
	}
	if err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	return user, nil
}

// hashPassword bcrypt 只接受 72 字节以内的密码，超长视为输入错误
func hashPassword(password string) (string, error) {
	hashed, err := utils.HashPassword(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", newError(ErrValidation, "password must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("密码哈希失败: %w", err)
	}
	return hashed, nil
}

// Update 只更新请求中出现的字段
func (s *UserService) Update(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*models.User, error) {
	updates := make(map[string]interface{})
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Password != nil {
		hashedPassword, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hashedPassword
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	err := s.userRepo.Update(ctx, id, updates)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, newError(ErrNotFound, "User not found")
	case errors.Is(err, repository.ErrDuplicateEntry):
		return nil, newError(ErrConflict, "Email %s is already registered", *req.Email)
	case err != nil:
		return nil, fmt.Errorf("更新用户失败: %w", err)
	}

	return s.Get(ctx, id)
}

// Delete 在同一事务内删除用户及其全部收藏
func (s *UserService) Delete(ctx context.Context, id uint) error {
	unlock, err := lockKeys(ctx, s.locker, userKey(id))
	if err != nil {
		return err
	}
	defer unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		exists, err := users.Exists(ctx, id)
		if err != nil {
			return fmt.Errorf("检查用户失败: %w", err)
		}
		if !exists {
			return newError(ErrNotFound, "User not found")
		}

		if err := s.favorites.removeForUser(ctx, tx, id); err != nil {
			return fmt.Errorf("删除用户收藏失败: %w", err)
		}
		if err := users.Delete(ctx, id); err != nil {
			return fmt.Errorf("删除用户失败: %w", err)
		}
		return nil
	})
}
