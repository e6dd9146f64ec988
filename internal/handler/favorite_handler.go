package handler

import (
	"fmt"
	"net/http"

	"starwars-api/internal/dto"
	"starwars-api/internal/service"
	"starwars-api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// FavoriteHandler 收藏处理器
type FavoriteHandler struct {
	favoriteService *service.FavoriteService
	logger          logrus.FieldLogger
}

// NewFavoriteHandler 创建收藏处理器
func NewFavoriteHandler(favoriteService *service.FavoriteService, logger logrus.FieldLogger) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		logger:          logger,
	}
}

// AddPlanetFavorite 收藏星球
func (h *FavoriteHandler) AddPlanetFavorite(c *gin.Context) {
	userID, ok := parseID(c, "id", "user")
	if !ok {
		return
	}
	planetID, ok := parseID(c, "pid", "planet")
	if !ok {
		return
	}

	planet, err := h.favoriteService.AddPlanetFavorite(c.Request.Context(), userID, planetID)
	if err != nil {
		HandleServiceError(c, h.logger, err)
		return
	}
	utils.MessageResponse(c, http.StatusCreated, fmt.Sprintf("%s added as a favorite for user %d", planet.Name, userID))
}

// AddCharacterFavorite 收藏角色
func (h *FavoriteHandler) AddCharacterFavorite(c *gin.Context) {
	userID, ok := parseID(c, "id", "user")
	if !ok {
		return
	}
	characterID, ok := parseID(c, "cid", "character")
	if !ok {
		return
	}

	character, err := h.favoriteService.AddCharacterFavorite(c.Request.Context(), userID, characterID)
	if err != nil {
		HandleServiceError(c, h.logger, err)
		return
	}
	utils.MessageResponse(c, http.StatusOK, fmt.Sprintf("%s added to favorites", character.Name))
}

// ListFavorites 获取用户的全部收藏
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	userID, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	items, err := h.favoriteService.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, h.logger, err)
		return
	}
	utils.Success(c, dto.FavoritesResponse{Favorites: items})
}
