package service

import (
	"context"
	"errors"
	"fmt"

	"starwars-api/internal/dto"
	"starwars-api/internal/models"
	"starwars-api/internal/repository"

	"gorm.io/gorm"
)

// CatalogService 角色与星球服务
type CatalogService struct {
	db            *gorm.DB
	characterRepo *repository.CharacterRepository
	planetRepo    *repository.PlanetRepository
	favorites     *FavoriteService
	locker        Locker
}

// NewCatalogService 创建角色与星球服务
func NewCatalogService(
	db *gorm.DB,
	characterRepo *repository.CharacterRepository,
	planetRepo *repository.PlanetRepository,
	favorites *FavoriteService,
	locker Locker,
) *CatalogService {
	return &CatalogService{
		db:            db,
		characterRepo: characterRepo,
		planetRepo:    planetRepo,
		favorites:     favorites,
		locker:        locker,
	}
}

// ListCharacters 获取全部角色
func (s *CatalogService) ListCharacters(ctx context.Context) ([]models.Character, error) {
	characters, err := s.characterRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取角色列表失败: %w", err)
	}
	return characters, nil
}

// GetCharacter 获取单个角色
func (s *CatalogService) GetCharacter(ctx context.Context, id uint) (*models.Character, error) {
	character, err := s.characterRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "Character not found")
	}
	if err != nil {
		return nil, fmt.Errorf("获取角色失败: %w", err)
	}
	return character, nil
}

// CreateCharacter 创建角色
func (s *CatalogService) CreateCharacter(ctx context.Context, req *dto.CreateCharacterRequest) (*models.Character, error) {
	character := req.ToModel()
	if err := s.characterRepo.Create(ctx, character); err != nil {
		return nil, fmt.Errorf("创建角色失败: %w", err)
	}
	return character, nil
}

// DeleteCharacter 在同一事务内删除角色及指向它的收藏
func (s *CatalogService) DeleteCharacter(ctx context.Context, id uint) error {
	unlock, err := lockKeys(ctx, s.locker, characterKey(id))
	if err != nil {
		return err
	}
	defer unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		characters := s.characterRepo.WithTx(tx)
		if _, err := characters.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return newError(ErrNotFound, "Character not found")
			}
			return fmt.Errorf("获取角色失败: %w", err)
		}

		if err := s.favorites.removeForCharacter(ctx, tx, id); err != nil {
			return fmt.Errorf("删除角色收藏失败: %w", err)
		}
		if err := characters.Delete(ctx, id); err != nil {
			return fmt.Errorf("删除角色失败: %w", err)
		}
		return nil
	})
}

// ListPlanets 获取全部星球
func (s *CatalogService) ListPlanets(ctx context.Context) ([]models.Planet, error) {
	planets, err := s.planetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取星球列表失败: %w", err)
	}
	return planets, nil
}

// GetPlanet 获取单个星球
func (s *CatalogService) GetPlanet(ctx context.Context, id uint) (*models.Planet, error) {
	planet, err := s.planetRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "Planet not found")
	}
	if err != nil {
		return nil, fmt.Errorf("获取星球失败: %w", err)
	}
	return planet, nil
}

// CreatePlanet 创建星球
func (s *CatalogService) CreatePlanet(ctx context.Context, req *dto.CreatePlanetRequest) (*models.Planet, error) {
	planet := req.ToModel()
	if err := s.planetRepo.Create(ctx, planet); err != nil {
		return nil, fmt.Errorf("创建星球失败: %w", err)
	}
	return planet, nil
}

// DeletePlanet 在同一事务内删除星球及指向它的收藏
func (s *CatalogService) DeletePlanet(ctx context.Context, id uint) error {
	unlock, err := lockKeys(ctx, s.locker, planetKey(id))
	if err != nil {
		return err
	}
	defer unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		planets := s.planetRepo.WithTx(tx)
		if _, err := planets.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return newError(ErrNotFound, "Planet not found")
			}
			return fmt.Errorf("获取星球失败: %w", err)
		}

		if err := s.favorites.removeForPlanet(ctx, tx, id); err != nil {
			return fmt.Errorf("删除星球收藏失败: %w", err)
		}
		if err := planets.Delete(ctx, id); err != nil {
			return fmt.Errorf("删除星球失败: %w", err)
		}
		return nil
	})
}
