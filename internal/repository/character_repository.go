package repository

import (
	"context"
	"fmt"

	"starwars-api/internal/models"

	"gorm.io/gorm"
)

// CharacterRepository 角色数据访问层
type CharacterRepository struct {
	db *gorm.DB
}

// NewCharacterRepository 创建角色Repository
func NewCharacterRepository(db *gorm.DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// WithTx 返回绑定到事务的Repository
func (r *CharacterRepository) WithTx(tx *gorm.DB) *CharacterRepository {
	return &CharacterRepository{db: tx}
}

// Create 创建角色
func (r *CharacterRepository) Create(ctx context.Context, character *models.Character) error {
	return translateError(r.db.WithContext(ctx).Create(character).Error)
}

// GetByID 根据ID获取角色
func (r *CharacterRepository) GetByID(ctx context.Context, id uint) (*models.Character, error) {
	var character models.Character
	if err := r.db.WithContext(ctx).First(&character, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &character, nil
}

// List 按创建顺序获取全部角色
func (r *CharacterRepository) List(ctx context.Context) ([]models.Character, error) {
	var characters []models.Character
	err := r.db.WithContext(ctx).Order("id ASC").Find(&characters).Error
	return characters, err
}

// Delete 删除角色
func (r *CharacterRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Character{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete character %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
