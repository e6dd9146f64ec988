package models

import (
	"errors"
	"fmt"
)

// ErrInvalidFavoriteTarget 收藏记录必须且只能指向一个星球或角色
var ErrInvalidFavoriteTarget = errors.New("favorite must reference exactly one planet or character")

// TargetKind 收藏目标类型
type TargetKind string

const (
	TargetPlanet    TargetKind = "planet"
	TargetCharacter TargetKind = "character"
)

// FavoriteTarget 收藏目标，星球或角色二选一
type FavoriteTarget struct {
	Kind TargetKind
	ID   uint
}

// PlanetTarget 以星球为目标
func PlanetTarget(id uint) FavoriteTarget {
	return FavoriteTarget{Kind: TargetPlanet, ID: id}
}

// CharacterTarget 以角色为目标
func CharacterTarget(id uint) FavoriteTarget {
	return FavoriteTarget{Kind: TargetCharacter, ID: id}
}

// String 例如 "planet:3"
func (t FavoriteTarget) String() string {
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}

// Favorite 收藏模型
// 数据库中保留 planet_id / character_id 两列，由 NewFavorite 和 CHECK 约束保证只设置其一
type Favorite struct {
	ID          uint  `gorm:"primarykey" json:"id"`
	UserID      uint  `gorm:"not null;index;uniqueIndex:idx_favorites_user_planet;uniqueIndex:idx_favorites_user_character" json:"user_id"`
	PlanetID    *uint `gorm:"uniqueIndex:idx_favorites_user_planet" json:"planet_id"`
	CharacterID *uint `gorm:"uniqueIndex:idx_favorites_user_character" json:"character_id"`

	// 关联
	User      *User      `gorm:"foreignKey:UserID" json:"-"`
	Planet    *Planet    `gorm:"foreignKey:PlanetID" json:"-"`
	Character *Character `gorm:"foreignKey:CharacterID" json:"-"`
}

// TableName 指定表名
func (Favorite) TableName() string {
	return "favorites"
}

// NewFavorite 创建指向 target 的收藏记录
func NewFavorite(userID uint, target FavoriteTarget) (*Favorite, error) {
	if target.ID == 0 {
		return nil, ErrInvalidFavoriteTarget
	}

	id := target.ID
	fav := &Favorite{UserID: userID}
	switch target.Kind {
	case TargetPlanet:
		fav.PlanetID = &id
	case TargetCharacter:
		fav.CharacterID = &id
	default:
		return nil, ErrInvalidFavoriteTarget
	}
	return fav, nil
}

// Target 还原收藏目标
func (f *Favorite) Target() (FavoriteTarget, error) {
	switch {
	case f.PlanetID != nil && f.CharacterID == nil:
		return PlanetTarget(*f.PlanetID), nil
	case f.CharacterID != nil && f.PlanetID == nil:
		return CharacterTarget(*f.CharacterID), nil
	default:
		return FavoriteTarget{}, fmt.Errorf("favorite %d: %w", f.ID, ErrInvalidFavoriteTarget)
	}
}
