package dto

import "starwars-api/internal/models"

// FavoriteItem 收藏项，kind 区分星球和角色
type FavoriteItem struct {
	Kind models.TargetKind `json:"kind"`
	ID   uint              `json:"id"`
	Name string            `json:"name"`
}

// NewPlanetFavorite 星球收藏项
func NewPlanetFavorite(p *models.Planet) FavoriteItem {
	return FavoriteItem{Kind: models.TargetPlanet, ID: p.ID, Name: p.Name}
}

// NewCharacterFavorite 角色收藏项
func NewCharacterFavorite(c *models.Character) FavoriteItem {
	return FavoriteItem{Kind: models.TargetCharacter, ID: c.ID, Name: c.Name}
}

// FavoritesResponse 用户收藏列表响应
type FavoritesResponse struct {
	Favorites []FavoriteItem `json:"favorites"`
}
