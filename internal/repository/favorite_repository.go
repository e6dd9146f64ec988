package repository

import (
	"context"
	"fmt"

	"starwars-api/internal/models"

	"gorm.io/gorm"
)

// FavoriteRepository 收藏数据访问层
type FavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository 创建收藏Repository
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// WithTx 返回绑定到事务的Repository
func (r *FavoriteRepository) WithTx(tx *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: tx}
}

// Create 插入收藏，(user, target) 已存在时返回 ErrDuplicateEntry
func (r *FavoriteRepository) Create(ctx context.Context, userID uint, target models.FavoriteTarget) (*models.Favorite, error) {
	fav, err := models.NewFavorite(userID, target)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(fav).Error; err != nil {
		return nil, translateError(err)
	}
	return fav, nil
}

// ListByUserID 获取用户的收藏，同时预加载目标星球和角色
func (r *FavoriteRepository) ListByUserID(ctx context.Context, userID uint) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := r.db.WithContext(ctx).
		Preload("Planet").
		Preload("Character").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&favorites).Error
	return favorites, err
}

// CountByUserID 统计用户的收藏数
func (r *FavoriteRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Favorite{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// DeleteByUserID 删除用户的全部收藏
func (r *FavoriteRepository) DeleteByUserID(ctx context.Context, userID uint) (int64, error) {
	return r.deleteWhere(ctx, "user_id = ?", userID)
}

// DeleteByPlanetID 删除指向星球的全部收藏
func (r *FavoriteRepository) DeleteByPlanetID(ctx context.Context, planetID uint) (int64, error) {
	return r.deleteWhere(ctx, "planet_id = ?", planetID)
}

// DeleteByCharacterID 删除指向角色的全部收藏
func (r *FavoriteRepository) DeleteByCharacterID(ctx context.Context, characterID uint) (int64, error) {
	return r.deleteWhere(ctx, "character_id = ?", characterID)
}

func (r *FavoriteRepository) deleteWhere(ctx context.Context, query string, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Where(query, id).Delete(&models.Favorite{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete favorites where %s: %w", query, result.Error)
	}
	return result.RowsAffected, nil
}
