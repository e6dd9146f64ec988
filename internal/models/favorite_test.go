package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFavoriteSetsExactlyOneColumn(t *testing.T) {
	fav, err := NewFavorite(1, PlanetTarget(7))
	require.NoError(t, err)
	require.NotNil(t, fav.PlanetID)
	assert.Equal(t, uint(7), *fav.PlanetID)
	assert.Nil(t, fav.CharacterID)

	fav, err = NewFavorite(1, CharacterTarget(3))
	require.NoError(t, err)
	require.NotNil(t, fav.CharacterID)
	assert.Equal(t, uint(3), *fav.CharacterID)
	assert.Nil(t, fav.PlanetID)
}

func TestNewFavoriteRejectsInvalidTarget(t *testing.T) {
	_, err := NewFavorite(1, FavoriteTarget{Kind: "starship", ID: 1})
	assert.ErrorIs(t, err, ErrInvalidFavoriteTarget)

	_, err = NewFavorite(1, PlanetTarget(0))
	assert.ErrorIs(t, err, ErrInvalidFavoriteTarget)
}

func TestFavoriteTarget(t *testing.T) {
	pid, cid := uint(2), uint(5)

	target, err := (&Favorite{PlanetID: &pid}).Target()
	require.NoError(t, err)
	assert.Equal(t, PlanetTarget(2), target)
	assert.Equal(t, "planet:2", target.String())

	target, err = (&Favorite{CharacterID: &cid}).Target()
	require.NoError(t, err)
	assert.Equal(t, CharacterTarget(5), target)

	_, err = (&Favorite{PlanetID: &pid, CharacterID: &cid}).Target()
	assert.ErrorIs(t, err, ErrInvalidFavoriteTarget)

	_, err = (&Favorite{}).Target()
	assert.ErrorIs(t, err, ErrInvalidFavoriteTarget)
}
