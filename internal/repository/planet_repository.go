package repository

import (
	"context"
	"fmt"

	"starwars-api/internal/models"

	"gorm.io/gorm"
)

// PlanetRepository 星球数据访问层
type PlanetRepository struct {
	db *gorm.DB
}

// NewPlanetRepository 创建星球Repository
func NewPlanetRepository(db *gorm.DB) *PlanetRepository {
	return &PlanetRepository{db: db}
}

// WithTx 返回绑定到事务的Repository
func (r *PlanetRepository) WithTx(tx *gorm.DB) *PlanetRepository {
	return &PlanetRepository{db: tx}
}

// Create 创建星球
func (r *PlanetRepository) Create(ctx context.Context, planet *models.Planet) error {
	return translateError(r.db.WithContext(ctx).Create(planet).Error)
}

// GetByID 根据ID获取星球
func (r *PlanetRepository) GetByID(ctx context.Context, id uint) (*models.Planet, error) {
	var planet models.Planet
	if err := r.db.WithContext(ctx).First(&planet, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &planet, nil
}

// List 按创建顺序获取全部星球
func (r *PlanetRepository) List(ctx context.Context) ([]models.Planet, error) {
	var planets []models.Planet
	err := r.db.WithContext(ctx).Order("id ASC").Find(&planets).Error
	return planets, err
}

// Delete 删除星球
func (r *PlanetRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Planet{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete planet %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
