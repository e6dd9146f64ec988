package dto

import "starwars-api/internal/models"

// CreateCharacterRequest 创建角色请求
type CreateCharacterRequest struct {
	Name      *string `json:"name" binding:"required"`
	Height    *string `json:"height" binding:"required"`
	Weight    *string `json:"weight" binding:"required"`
	BirthYear *string `json:"birth_year" binding:"required"`
	SkinColor *string `json:"skin_color" binding:"required"`
	EyeColor  *string `json:"eye_color" binding:"required"`
	HairColor *string `json:"hair_color" binding:"required"`
}

// ToModel 转换为角色模型
func (r *CreateCharacterRequest) ToModel() *models.Character {
	return &models.Character{
		Name:      deref(r.Name),
		Height:    deref(r.Height),
		Weight:    deref(r.Weight),
		BirthYear: deref(r.BirthYear),
		SkinColor: deref(r.SkinColor),
		EyeColor:  deref(r.EyeColor),
		HairColor: deref(r.HairColor),
	}
}

// CreatePlanetRequest 创建星球请求
type CreatePlanetRequest struct {
	Name           *string `json:"name" binding:"required"`
	RotationPeriod *string `json:"rotation_period" binding:"required"`
	OrbitalPeriod  *string `json:"orbital_period" binding:"required"`
	Gravity        *string `json:"gravity" binding:"required"`
	Terrain        *string `json:"terrain" binding:"required"`
}

// ToModel 转换为星球模型
func (r *CreatePlanetRequest) ToModel() *models.Planet {
	return &models.Planet{
		Name:           deref(r.Name),
		RotationPeriod: deref(r.RotationPeriod),
		OrbitalPeriod:  deref(r.OrbitalPeriod),
		Gravity:        deref(r.Gravity),
		Terrain:        deref(r.Terrain),
	}
}

// CharacterResponse 角色信息
type CharacterResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Height    string `json:"height"`
	Weight    string `json:"weight"`
	BirthYear string `json:"birth_year"`
	SkinColor string `json:"skin_color"`
	EyeColor  string `json:"eye_color"`
	HairColor string `json:"hair_color"`
}

// NewCharacterResponse 转换角色
func NewCharacterResponse(c *models.Character) CharacterResponse {
	return CharacterResponse{
		ID:        c.ID,
		Name:      c.Name,
		Height:    c.Height,
		Weight:    c.Weight,
		BirthYear: c.BirthYear,
		SkinColor: c.SkinColor,
		EyeColor:  c.EyeColor,
		HairColor: c.HairColor,
	}
}

// NewCharacterResponses 转换角色列表
func NewCharacterResponses(characters []models.Character) []CharacterResponse {
	resp := make([]CharacterResponse, 0, len(characters))
	for i := range characters {
		resp = append(resp, NewCharacterResponse(&characters[i]))
	}
	return resp
}

// PlanetResponse 星球信息
type PlanetResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	RotationPeriod string `json:"rotation_period"`
	OrbitalPeriod  string `json:"orbital_period"`
	Gravity        string `json:"gravity"`
	Terrain        string `json:"terrain"`
}

// NewPlanetResponse 转换星球
func NewPlanetResponse(p *models.Planet) PlanetResponse {
	return PlanetResponse{
		ID:             p.ID,
		Name:           p.Name,
		RotationPeriod: p.RotationPeriod,
		OrbitalPeriod:  p.OrbitalPeriod,
		Gravity:        p.Gravity,
		Terrain:        p.Terrain,
	}
}

// NewPlanetResponses 转换星球列表
func NewPlanetResponses(planets []models.Planet) []PlanetResponse {
	resp := make([]PlanetResponse, 0, len(planets))
	for i := range planets {
		resp = append(resp, NewPlanetResponse(&planets[i]))
	}
	return resp
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
