package service

import (
	"context"
	"errors"
	"fmt"

	"starwars-api/internal/dto"
	"starwars-api/internal/models"
	"starwars-api/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// FavoriteService 收藏服务
// 每个用户对同一星球或角色最多收藏一次，由唯一索引在同一事务内保证
type FavoriteService struct {
	db            *gorm.DB
	userRepo      *repository.UserRepository
	planetRepo    *repository.PlanetRepository
	characterRepo *repository.CharacterRepository
	favoriteRepo  *repository.FavoriteRepository
	locker        Locker
	logger        logrus.FieldLogger
}

// NewFavoriteService 创建收藏服务
func NewFavoriteService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	planetRepo *repository.PlanetRepository,
	characterRepo *repository.CharacterRepository,
	favoriteRepo *repository.FavoriteRepository,
	locker Locker,
	logger logrus.FieldLogger,
) *FavoriteService {
	return &FavoriteService{
		db:            db,
		userRepo:      userRepo,
		planetRepo:    planetRepo,
		characterRepo: characterRepo,
		favoriteRepo:  favoriteRepo,
		locker:        locker,
		logger:        logger,
	}
}

// AddPlanetFavorite 收藏星球
func (s *FavoriteService) AddPlanetFavorite(ctx context.Context, userID, planetID uint) (*models.Planet, error) {
	var planet *models.Planet
	err := s.addFavorite(ctx, userID, models.PlanetTarget(planetID), func(tx *gorm.DB) (string, error) {
		p, err := s.planetRepo.WithTx(tx).GetByID(ctx, planetID)
		if errors.Is(err, repository.ErrNotFound) {
			return "", newError(ErrNotFound, "Planet not found")
		}
		if err != nil {
			return "", fmt.Errorf("获取星球失败: %w", err)
		}
		planet = p
		return p.Name, nil
	})
	if err != nil {
		return nil, err
	}
	return planet, nil
}

// AddCharacterFavorite 收藏角色
func (s *FavoriteService) AddCharacterFavorite(ctx context.Context, userID, characterID uint) (*models.Character, error) {
	var character *models.Character
	err := s.addFavorite(ctx, userID, models.CharacterTarget(characterID), func(tx *gorm.DB) (string, error) {
		c, err := s.characterRepo.WithTx(tx).GetByID(ctx, characterID)
		if errors.Is(err, repository.ErrNotFound) {
			return "", newError(ErrNotFound, "Character not found")
		}
		if err != nil {
			return "", fmt.Errorf("获取角色失败: %w", err)
		}
		character = c
		return c.Name, nil
	})
	if err != nil {
		return nil, err
	}
	return character, nil
}

// addFavorite 在一个事务内检查用户和目标并插入收藏
// 先锁用户再锁目标，删除操作只锁单个键，因此不会死锁
func (s *FavoriteService) addFavorite(
	ctx context.Context,
	userID uint,
	target models.FavoriteTarget,
	loadTarget func(tx *gorm.DB) (string, error),
) error {
	unlock, err := lockKeys(ctx, s.locker, userKey(userID), target.String())
	if err != nil {
		return err
	}
	defer unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.userRepo.WithTx(tx).Exists(ctx, userID)
		if err != nil {
			return fmt.Errorf("检查用户失败: %w", err)
		}
		if !exists {
			return newError(ErrNotFound, "User not found")
		}

		name, err := loadTarget(tx)
		if err != nil {
			return err
		}

		_, err = s.favoriteRepo.WithTx(tx).Create(ctx, userID, target)
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return newError(ErrConflict, "%s is already a favorite", name)
		}
		if err != nil {
			return fmt.Errorf("创建收藏失败: %w", err)
		}

		s.logger.WithFields(logrus.Fields{"user_id": userID, "target": target.String()}).Info("收藏已添加")
		return nil
	})
}

// ListFavorites 获取用户收藏，每项解析为当前的星球或角色
func (s *FavoriteService) ListFavorites(ctx context.Context, userID uint) ([]dto.FavoriteItem, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("检查用户失败: %w", err)
	}
	if !exists {
		return nil, newError(ErrNotFound, "User not found")
	}

	favorites, err := s.favoriteRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("获取收藏失败: %w", err)
	}

	items := make([]dto.FavoriteItem, 0, len(favorites))
	for i := range favorites {
		item, err := s.resolve(&favorites[i])
		if err != nil {
			s.logger.WithError(err).WithField("favorite_id", favorites[i].ID).Error("收藏数据不一致")
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *FavoriteService) resolve(fav *models.Favorite) (dto.FavoriteItem, error) {
	target, err := fav.Target()
	if err != nil {
		return dto.FavoriteItem{}, fmt.Errorf("%w: %v", ErrDanglingFavorite, err)
	}

	switch target.Kind {
	case models.TargetPlanet:
		if fav.Planet == nil {
			return dto.FavoriteItem{}, fmt.Errorf("%w: favorite %d -> %s", ErrDanglingFavorite, fav.ID, target)
		}
		return dto.NewPlanetFavorite(fav.Planet), nil
	default:
		if fav.Character == nil {
			return dto.FavoriteItem{}, fmt.Errorf("%w: favorite %d -> %s", ErrDanglingFavorite, fav.ID, target)
		}
		return dto.NewCharacterFavorite(fav.Character), nil
	}
}

// RemoveFavoritesForUser 删除用户的全部收藏，没有匹配时不报错
func (s *FavoriteService) RemoveFavoritesForUser(ctx context.Context, userID uint) error {
	return s.removeForUser(ctx, s.db, userID)
}

// RemoveFavoritesForPlanet 删除指向星球的全部收藏
func (s *FavoriteService) RemoveFavoritesForPlanet(ctx context.Context, planetID uint) error {
	return s.removeForPlanet(ctx, s.db, planetID)
}

// RemoveFavoritesForCharacter 删除指向角色的全部收藏
func (s *FavoriteService) RemoveFavoritesForCharacter(ctx context.Context, characterID uint) error {
	return s.removeForCharacter(ctx, s.db, characterID)
}

func (s *FavoriteService) removeForUser(ctx context.Context, tx *gorm.DB, userID uint) error {
	n, err := s.favoriteRepo.WithTx(tx).DeleteByUserID(ctx, userID)
	if err != nil {
		return err
	}
	s.logRemoved(userKey(userID), n)
	return nil
}

func (s *FavoriteService) removeForPlanet(ctx context.Context, tx *gorm.DB, planetID uint) error {
	n, err := s.favoriteRepo.WithTx(tx).DeleteByPlanetID(ctx, planetID)
	if err != nil {
		return err
	}
	s.logRemoved(planetKey(planetID), n)
	return nil
}

func (s *FavoriteService) removeForCharacter(ctx context.Context, tx *gorm.DB, characterID uint) error {
	n, err := s.favoriteRepo.WithTx(tx).DeleteByCharacterID(ctx, characterID)
	if err != nil {
		return err
	}
	s.logRemoved(characterKey(characterID), n)
	return nil
}

func (s *FavoriteService) logRemoved(owner string, n int64) {
	if n > 0 {
		s.logger.WithFields(logrus.Fields{"owner": owner, "count": n}).Debug("收藏已级联删除")
	}
}
