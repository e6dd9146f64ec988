package handler

import (
	"starwars-api/internal/dto"
	"starwars-api/internal/service"
	"starwars-api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CatalogHandler 角色与星球处理器
type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         logrus.FieldLogger
}

// NewCatalogHandler 创建角色与星球处理器
func NewCatalogHandler(catalogService *service.CatalogService, logger logrus.FieldLogger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListCharacters 获取所有角色
func (h *CatalogHandler) ListCharacters(c *gin.Context) {
	characters, err := h.catalogService.ListCharacters(c.Request.Context())
	if err != nil {
		HandleServiceError(c, h.logger, err)
		return
	}
	utils.Success(c, dto.NewCharacterResponses(characters))
}

// GetCharacter 获取单个角色
func (h *CatalogHandler) GetCharacter(c *gin.Context) {
	id, ok := parseID(c, "id", "character")
	if !ok {
		return
	}

	character, err := h.catalogService.GetCharacter(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, h.logger, err)
		return
	}
	utils.Success(c, dto.NewCharacterResponse(character))
}

// CreateCharacter 创建角色
func (h *CatalogHandler) CreateCharacter(c *gin.Context) {
	var req dto.CreateCharacterRequest
	if !bindJSON(c, &req) {
		return
	}

	character, err := h.catalogService.CreateCharacter(c.Request.Context(), &req)
	if err != nil {
		HandleServiceError(c, h.logger, err)
		return
	}
	utils.Success(c, dto.NewCharacterResponse(character))
}

// DeleteCharacter 删除角色及指向它的收藏
func (h *CatalogHandler) DeleteCharacter(c *gin.Context) {
	id, ok := parseID(c, "id", "character")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCharacter(c.Request.Context(), id); err != nil {
		HandleServiceError(c, h.logger, err)
		return
	}
	utils.Success(c, "Character deleted")
}

// ListPlanets 获取所有星球
func (h *CatalogHandler) ListPlanets(c *gin.Context) {
	planets, err := h.catalogService.ListPlanets(c.Request.Context())
	if err != nil {
		HandleServiceError(c, h.logger, err)
		return
	}
	utils.Success(c, dto.NewPlanetResponses(planets))
}

// GetPlanet 获取单个星球
func (h *CatalogHandler) GetPlanet(c *gin.Context) {
	id, ok := parseID(c, "id", "planet")
	if !ok {
		return
	}

	planet, err := h.catalogService.GetPlanet(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, h.logger, err)
		return
	}
	utils.Success(c, dto.NewPlanetResponse(planet))
}

// CreatePlanet 创建星球
func (h *CatalogHandler) CreatePlanet(c *gin.Context) {
	var req dto.CreatePlanetRequest
	if !bindJSON(c, &req) {
		return
	}

	planet, err := h.catalogService.CreatePlanet(c.Request.Context(), &req)
	if err != nil {
		HandleServiceError(c, h.logger, err)
		return
	}
	utils.Success(c, dto.NewPlanetResponse(planet))
}

// DeletePlanet 删除星球及指向它的收藏
func (h *CatalogHandler) DeletePlanet(c *gin.Context) {
	id, ok := parseID(c, "id", "planet")
	if !ok {
		return
	}

	if err := h.catalogService.DeletePlanet(c.Request.Context(), id); err != nil {
		HandleServiceError(c, h.logger, err)
		return
	}
	utils.Success(c, "Planet deleted")
}
