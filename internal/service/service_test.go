package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"starwars-api/internal/dbtest"
	"starwars-api/internal/dto"
	"starwars-api/internal/models"
	"starwars-api/internal/repository"
	"starwars-api/internal/service"
	"starwars-api/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	favRepo   *repository.FavoriteRepository
	users     *service.UserService
	catalog   *service.CatalogService
	favorites *service.FavoriteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithLocker(t, service.NewLocalLocker(time.Second))
}

func newFixtureWithLocker(t *testing.T, locker service.Locker) *fixture {
	t.Helper()
	utils.PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { utils.PasswordCost = bcrypt.DefaultCost })

	db := dbtest.NewDB(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	userRepo := repository.NewUserRepository(db)
	planetRepo := repository.NewPlanetRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	favRepo := repository.NewFavoriteRepository(db)

	favorites := service.NewFavoriteService(db, userRepo, planetRepo, characterRepo, favRepo, locker, logger)
	return &fixture{
		db:        db,
		favRepo:   favRepo,
		users:     service.NewUserService(db, userRepo, favorites, locker),
		catalog:   service.NewCatalogService(db, characterRepo, planetRepo, favorites, locker),
		favorites: favorites,
	}
}

func strPtr(s string) *string { return &s }

func (f *fixture) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), &dto.CreateUserRequest{
		Email:    strPtr(email),
		Password: strPtr("x"),
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) createPlanet(t *testing.T, name string) *models.Planet {
	t.Helper()
	planet, err := f.catalog.CreatePlanet(context.Background(), &dto.CreatePlanetRequest{
		Name:           strPtr(name),
		RotationPeriod: strPtr("23"),
		OrbitalPeriod:  strPtr("304"),
		Gravity:        strPtr("1 standard"),
		Terrain:        strPtr("desert"),
	})
	require.NoError(t, err)
	return planet
}

func (f *fixture) createCharacter(t *testing.T, name string) *models.Character {
	t.Helper()
	character, err := f.catalog.CreateCharacter(context.Background(), &dto.CreateCharacterRequest{
		Name:      strPtr(name),
		Height:    strPtr("172"),
		Weight:    strPtr("77"),
		BirthYear: strPtr("19BBY"),
		SkinColor: strPtr("fair"),
		EyeColor:  strPtr("blue"),
		HairColor: strPtr("blond"),
	})
	require.NoError(t, err)
	return character
}

// --- 用户 ---

func TestUserService_CreateHashesPassword(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "a@b.com")

	assert.Equal(t, uint(1), user.ID)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "x", user.PasswordHash)
	assert.NoError(t, utils.CheckPassword("x", user.PasswordHash))
}

func TestUserService_CreateDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "a@b.com")

	_, err := f.users.Create(context.Background(), &dto.CreateUserRequest{
		Email:    strPtr("a@b.com"),
		Password: strPtr("y"),
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestUserService_CreateRequiresFields(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Create(context.Background(), &dto.CreateUserRequest{Email: strPtr("a@b.com")})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestUserService_PasswordTooLong(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	long := strings.Repeat("p", 73)

	_, err := f.users.Create(ctx, &dto.CreateUserRequest{Email: strPtr("l@b.com"), Password: &long})
	require.ErrorIs(t, err, service.ErrValidation)
	assert.Equal(t, "password must be at most 72 bytes", err.Error())

	user := f.createUser(t, "a@b.com")
	_, err = f.users.Update(ctx, user.ID, &dto.UpdateUserRequest{Password: &long})
	require.ErrorIs(t, err, service.ErrValidation)

	// 72 字节正好可以
	exact := strings.Repeat("p", 72)
	_, err = f.users.Update(ctx, user.ID, &dto.UpdateUserRequest{Password: &exact})
	assert.NoError(t, err)
}

func TestUserService_GetMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Get(context.Background(), 999)
	require.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, "User not found", err.Error())
}

func TestUserService_UpdateAppliesOnlyProvidedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "a@b.com")

	inactive := false
	updated, err := f.users.Update(ctx, user.ID, &dto.UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "a@b.com", updated.Email)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash)

	updated, err = f.users.Update(ctx, user.ID, &dto.UpdateUserRequest{Password: strPtr("new")})
	require.NoError(t, err)
	assert.NoError(t, utils.CheckPassword("new", updated.PasswordHash))
	assert.False(t, updated.IsActive)

	updated, err = f.users.Update(ctx, user.ID, &dto.UpdateUserRequest{})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", updated.Email)

	_, err = f.users.Update(ctx, 999, &dto.UpdateUserRequest{Email: strPtr("z@b.com")})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUserService_UpdateDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "a@b.com")
	other := f.createUser(t, "c@d.com")

	_, err := f.users.Update(context.Background(), other.ID, &dto.UpdateUserRequest{Email: strPtr("a@b.com")})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestUserService_ListInInsertionOrder(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "z@b.com")
	f.createUser(t, "a@b.com")

	users, err := f.users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "z@b.com", users[0].Email)
	assert.Equal(t, "a@b.com", users[1].Email)
}

// --- 角色与星球 ---

func TestCatalogService_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	planet := f.createPlanet(t, "Tatooine")
	got, err := f.catalog.GetPlanet(ctx, planet.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Planet{
		ID: 1, Name: "Tatooine", RotationPeriod: "23", OrbitalPeriod: "304",
		Gravity: "1 standard", Terrain: "desert",
	}, *got)

	character := f.createCharacter(t, "Luke Skywalker")
	gotChar, err := f.catalog.GetCharacter(ctx, character.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Character{
		ID: 1, Name: "Luke Skywalker", Height: "172", Weight: "77", BirthYear: "19BBY",
		SkinColor: "fair", EyeColor: "blue", HairColor: "blond",
	}, *gotChar)

	_, err = f.catalog.GetPlanet(ctx, 2)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.catalog.GetCharacter(ctx, 2)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCatalogService_DeleteMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.catalog.DeletePlanet(ctx, 5)
	require.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, "Planet not found", err.Error())

	err = f.catalog.DeleteCharacter(ctx, 5)
	require.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, "Character not found", err.Error())

	err = f.users.Delete(ctx, 5)
	require.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, "User not found", err.Error())
}

// --- 收藏 ---

func TestFavoriteService_AddPlanetTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "a@b.com")
	planet := f.createPlanet(t, "Tatooine")

	got, err := f.favorites.AddPlanetFavorite(ctx, user.ID, planet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tatooine", got.Name)

	_, err = f.favorites.AddPlanetFavorite(ctx, user.ID, planet.ID)
	require.ErrorIs(t, err, service.ErrConflict)
	assert.Equal(t, "Tatooine is already a favorite", err.Error())

	count, err := f.favRepo.CountByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestFavoriteService_AddCharacterTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "a@b.com")
	luke := f.createCharacter(t, "Luke Skywalker")

	_, err := f.favorites.AddCharacterFavorite(ctx, user.ID, luke.ID)
	require.NoError(t, err)

	_, err = f.favorites.AddCharacterFavorite(ctx, user.ID, luke.ID)
	require.ErrorIs(t, err, service.ErrConflict)
	assert.Equal(t, "Luke Skywalker is already a favorite", err.Error())
}

func TestFavoriteService_AddMissingEntities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "a@b.com")
	planet := f.createPlanet(t, "Hoth")

	_, err := f.favorites.AddPlanetFavorite(ctx, 42, planet.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, "User not found", err.Error())

	_, err = f.favorites.AddPlanetFavorite(ctx, user.ID, 42)
	require.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, "Planet not found", err.Error())

	_, err = f.favorites.AddCharacterFavorite(ctx, user.ID, 42)
	require.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, "Character not found", err.Error())
}

func TestFavoriteService_ListFavorites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "a@b.com")
	planet := f.createPlanet(t, "Tatooine")
	luke := f.createCharacter(t, "Luke Skywalker")

	items, err := f.favorites.ListFavorites(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	_, err = f.favorites.AddCharacterFavorite(ctx, user.ID, luke.ID)
	require.NoError(t, err)
	_, err = f.favorites.AddPlanetFavorite(ctx, user.ID, planet.ID)
	require.NoError(t, err)

	items, err = f.favorites.ListFavorites(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []dto.FavoriteItem{
		{Kind: models.TargetCharacter, ID: luke.ID, Name: "Luke Skywalker"},
		{Kind: models.TargetPlanet, ID: planet.ID, Name: "Tatooine"},
	}, items)

	_, err = f.favorites.ListFavorites(ctx, 999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestFavoriteService_DeleteUserCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "a@b.com")
	planet := f.createPlanet(t, "Tatooine")
	luke := f.createCharacter(t, "Luke Skywalker")

	_, err := f.favorites.AddPlanetFavorite(ctx, user.ID, planet.ID)
	require.NoError(t, err)
	_, err = f.favorites.AddCharacterFavorite(ctx, user.ID, luke.ID)
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(ctx, user.ID))

	count, err := f.favRepo.CountByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = f.favorites.ListFavorites(ctx, user.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	// 目标本身不受影响
	_, err = f.catalog.GetPlanet(ctx, planet.ID)
	assert.NoError(t, err)
}

func TestFavoriteService_DeletePlanetCascadesAcrossUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.createUser(t, "alice@b.com")
	bob := f.createUser(t, "bob@b.com")
	planet := f.createPlanet(t, "Tatooine")
	luke := f.createCharacter(t, "Luke Skywalker")

	for _, u := range []*models.User{alice, bob} {
		_, err := f.favorites.AddPlanetFavorite(ctx, u.ID, planet.ID)
		require.NoError(t, err)
	}
	_, err := f.favorites.AddCharacterFavorite(ctx, bob.ID, luke.ID)
	require.NoError(t, err)

	require.NoError(t, f.catalog.DeletePlanet(ctx, planet.ID))

	items, err := f.favorites.ListFavorites(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = f.favorites.ListFavorites(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []dto.FavoriteItem{{Kind: models.TargetCharacter, ID: luke.ID, Name: "Luke Skywalker"}}, items)

	_, err = f.catalog.GetPlanet(ctx, planet.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestFavoriteService_DeleteCharacterCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "a@b.com")
	luke := f.createCharacter(t, "Luke Skywalker")

	_, err := f.favorites.AddCharacterFavorite(ctx, user.ID, luke.ID)
	require.NoError(t, err)
	require.NoError(t, f.catalog.DeleteCharacter(ctx, luke.ID))

	count, err := f.favRepo.CountByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFavoriteService_RemoveIsNoOpWhenNothingMatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.NoError(t, f.favorites.RemoveFavoritesForUser(ctx, 1))
	assert.NoError(t, f.favorites.RemoveFavoritesForPlanet(ctx, 1))
	assert.NoError(t, f.favorites.RemoveFavoritesForCharacter(ctx, 1))
}

func TestFavoriteService_RemoveFavorites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "a@b.com")
	planet := f.createPlanet(t, "Tatooine")
	luke := f.createCharacter(t, "Luke Skywalker")

	_, err := f.favorites.AddPlanetFavorite(ctx, user.ID, planet.ID)
	require.NoError(t, err)
	_, err = f.favorites.AddCharacterFavorite(ctx, user.ID, luke.ID)
	require.NoError(t, err)

	require.NoError(t, f.favorites.RemoveFavoritesForPlanet(ctx, planet.ID))
	count, err := f.favRepo.CountByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, f.favorites.RemoveFavoritesForUser(ctx, user.ID))
	count, err = f.favRepo.CountByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFavoriteService_DanglingFavoriteIsReported(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "a@b.com")
	planet := f.createPlanet(t, "Alderaan")

	_, err := f.favorites.AddPlanetFavorite(ctx, user.ID, planet.ID)
	require.NoError(t, err)

	// 绕过服务层直接删除星球，制造不一致数据
	require.NoError(t, f.db.Exec("PRAGMA foreign_keys = OFF").Error)
	require.NoError(t, f.db.Exec("DELETE FROM planets WHERE id = ?", planet.ID).Error)

	_, err = f.favorites.ListFavorites(ctx, user.ID)
	assert.ErrorIs(t, err, service.ErrDanglingFavorite)
}

// noopLocker 不做任何互斥，只剩唯一索引保证每个目标只收藏一次
type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }

// addConcurrently 并发执行 add，统计成功与冲突次数
// 测试库只有一个连接，这里校验的是结果而不是数据库层面的真正并行
func addConcurrently(t *testing.T, n int, add func() error) (ok, conflicts int) {
	t.Helper()
	var mu sync.Mutex
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := add()

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, service.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()
	return ok, conflicts
}

func TestFavoriteService_ConcurrentAddPlanet(t *testing.T) {
	lockers := map[string]service.Locker{
		"local locker": service.NewLocalLocker(5 * time.Second),
		"unique index": noopLocker{},
	}

	for name, locker := range lockers {
		t.Run(name, func(t *testing.T) {
			f := newFixtureWithLocker(t, locker)
			ctx := context.Background()
			user := f.createUser(t, "a@b.com")
			planet := f.createPlanet(t, "Tatooine")

			const n = 20
			ok, conflicts := addConcurrently(t, n, func() error {
				_, err := f.favorites.AddPlanetFavorite(ctx, user.ID, planet.ID)
				return err
			})
			assert.Equal(t, 1, ok)
			assert.Equal(t, n-1, conflicts)

			count, err := f.favRepo.CountByUserID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})
	}
}

func TestFavoriteService_ConcurrentAddCharacter(t *testing.T) {
	lockers := map[string]service.Locker{
		"local locker": service.NewLocalLocker(5 * time.Second),
		"unique index": noopLocker{},
	}

	for name, locker := range lockers {
		t.Run(name, func(t *testing.T) {
			f := newFixtureWithLocker(t, locker)
			ctx := context.Background()
			user := f.createUser(t, "a@b.com")
			luke := f.createCharacter(t, "Luke Skywalker")

			const n = 20
			ok, conflicts := addConcurrently(t, n, func() error {
				_, err := f.favorites.AddCharacterFavorite(ctx, user.ID, luke.ID)
				return err
			})
			assert.Equal(t, 1, ok)
			assert.Equal(t, n-1, conflicts)

			count, err := f.favRepo.CountByUserID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})
	}
}
