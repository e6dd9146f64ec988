package router

import (
	"net/http"
	"sort"

	"starwars-api/internal/config"
	"starwars-api/internal/dto"
	"starwars-api/internal/handler"
	"starwars-api/internal/middleware"
	"starwars-api/internal/repository"
	"starwars-api/internal/service"
	"starwars-api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Version 接口版本
const Version = "1.0.0"

// SetupRouter 设置路由
func SetupRouter(
	cfg *config.Config,
	logger *logrus.Logger,
	db *gorm.DB,
	locker service.Locker,
) *gin.Engine {
	// 设置Gin模式
	if cfg.Server.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.InitValidator()

	r := gin.New()
	r.RedirectTrailingSlash = true
	r.RemoveExtraSlash = true

	// 全局中间件
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(&cfg.CORS))

	r.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "Route not found")
	})

	// 初始化Repository
	userRepo := repository.NewUserRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	planetRepo := repository.NewPlanetRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)

	// 初始化Service
	favoriteService := service.NewFavoriteService(db, userRepo, planetRepo, characterRepo, favoriteRepo, locker, logger)
	userService := service.NewUserService(db, userRepo, favoriteService, locker)
	catalogService := service.NewCatalogService(db, characterRepo, planetRepo, favoriteService, locker)

	// 初始化Handler
	userHandler := handler.NewUserHandler(userService, logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService, logger)

	// 接口索引
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.IndexResponse{
			Message:   "Star Wars favorites API",
			Version:   Version,
			Endpoints: endpoints(r.Routes()),
		})
	})

	// 用户
	users := r.Group("/user")
	{
		users.GET("", userHandler.ListUsers)
		users.POST("", userHandler.CreateUser)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)

		// 收藏
		users.GET("/:id/favorites", favoriteHandler.ListFavorites)
		users.POST("/:id/favorite/planet/:pid", favoriteHandler.AddPlanetFavorite)
		users.POST("/:id/favorite/character/:cid", favoriteHandler.AddCharacterFavorite)
	}

	// 角色
	r.GET("/characters", catalogHandler.ListCharacters)
	r.GET("/characters/:id", catalogHandler.GetCharacter)
	r.POST("/characters", catalogHandler.CreateCharacter)
	r.DELETE("/character/:id", catalogHandler.DeleteCharacter)

	// 星球
	r.GET("/planets", catalogHandler.ListPlanets)
	r.GET("/planets/:id", catalogHandler.GetPlanet)
	r.POST("/planets", catalogHandler.CreatePlanet)
	r.DELETE("/planet/:id", catalogHandler.DeletePlanet)

	return r
}

// endpoints 按路径排序列出 "METHOD /path"
func endpoints(routes gin.RoutesInfo) []string {
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	list := make([]string, 0, len(routes))
	for _, route := range routes {
		list = append(list, route.Method+" "+route.Path)
	}
	return list
}
