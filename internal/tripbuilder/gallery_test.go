package tripbuilder

import (
	"context"
	"testing"

	"github.com/OldiBike/mototrip-planner-sub000/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialTab_Priority(t *testing.T) {
	all := Buckets{Hotel: []string{"h"}, POI: []string{"p"}, Restaurant: []string{"r"}, Media: []string{"m"}}
	assert.Equal(t, TabHotel, InitialTab(all, ""))
	assert.Equal(t, TabMedia, InitialTab(all, TabMedia))
	assert.Equal(t, TabHotel, InitialTab(all, "unknown"))

	noHotel := Buckets{Restaurant: []string{"r"}, Media: []string{"m"}}
	assert.Equal(t, TabRestaurant, InitialTab(noHotel, ""))
	assert.Equal(t, TabRestaurant, InitialTab(noHotel, TabPOI), "empty requested tab falls back")

	assert.Equal(t, TabHotel, InitialTab(Buckets{}, TabMedia))
}

func TestWrap(t *testing.T) {
	for n := 1; n <= 5; n++ {
		assert.Equal(t, 0, Wrap(n-1, 1, n), "next from last")
		assert.Equal(t, n-1, Wrap(0, -1, n), "previous from first")
		for i := 0; i < n; i++ {
			assert.Equal(t, (i+1+n)%n, Wrap(i, 1, n))
			assert.Equal(t, (i-1+n)%n, Wrap(i, -1, n))
		}
	}
	assert.Equal(t, 0, Wrap(0, 1, 0))
}

func TestBuildBuckets_MergesAndDeduplicates(t *testing.T) {
	cached := types.Day{
		HotelPhotos: []string{"h1"},
		POIs:        []types.PlaceRef{{Name: "Col", Photos: []string{"p1"}}, {Name: "legacy", Photos: []string{}}},
		Photos:      []string{"m1"},
	}
	fresh := cached.Clone()
	fresh.Photos = append(fresh.Photos, "m2")
	fresh.Restaurants = []types.PlaceRef{{Name: "Chez Marie", Photos: []string{"r1"}}}

	b := BuildBuckets(cached, fresh, nil)
	assert.Equal(t, []string{"h1"}, b.Hotel)
	assert.Equal(t, []string{"p1"}, b.POI)
	assert.Equal(t, []string{"r1"}, b.Restaurant)
	assert.Equal(t, []string{"m1", "m2"}, b.Media)
}

func TestOpenGallery_BackfillsHotelPhotos(t *testing.T) {
	fb := seededBackend()
	s := readySession(t, fb)

	require.NoError(t, s.OpenGallery(context.Background(), "d1", ""))
	assert.Equal(t, StateGalleryOpen, s.State())
	assert.Equal(t, []string{"GET /admin/api/trips/t1/days/d1", "GET /admin/api/hotels/h1"}, fb.calls())

	g := s.Gallery()
	require.NotNil(t, g)
	assert.Equal(t, TabHotel, g.Tab)
	assert.Equal(t, []string{"https://img/hotel-1.jpg", "https://img/hotel-2.jpg"}, g.Photos)
	assert.Equal(t, "https://img/hotel-1.jpg", g.Current)
	assert.Equal(t, []string{"https://img/poi-1.jpg"}, g.Buckets.POI)
}

func TestOpenGallery_Idempotent(t *testing.T) {
	fb := seededBackend()
	fb.details["d2"] = map[string]interface{}{"id": "d2", "dayName": "Jour 2", "photos": []string{"https://img/media-1.jpg", "https://img/media-2.jpg"}}
	s := readySession(t, fb)

	require.NoError(t, s.OpenGallery(context.Background(), "d2", TabRestaurant))
	first := s.Gallery()
	require.NoError(t, s.CloseGallery())
	assert.Nil(t, s.Gallery())

	require.NoError(t, s.OpenGallery(context.Background(), "d2", TabRestaurant))
	second := s.Gallery()

	assert.Equal(t, first, second)
	assert.Equal(t, TabMedia, second.Tab)
	assert.Equal(t, []string{"https://img/media-1.jpg", "https://img/media-2.jpg"}, second.Photos)
}

func TestOpenGallery_Navigation(t *testing.T) {
	fb := seededBackend()
	s := readySession(t, fb)
	require.NoError(t, s.OpenGallery(context.Background(), "d1", TabHotel))

	require.NoError(t, s.PrevPhoto())
	assert.Equal(t, 1, s.Gallery().Index, "previous from the first photo wraps to the last")
	require.NoError(t, s.NextPhoto())
	assert.Equal(t, 0, s.Gallery().Index, "next from the last photo wraps to the first")

	require.NoError(t, s.SelectTab(TabPOI))
	assert.Equal(t, 0, s.Gallery().Index)
	assert.Equal(t, "https://img/poi-1.jpg", s.Gallery().Current)
	require.NoError(t, s.NextPhoto())
	assert.Equal(t, 0, s.Gallery().Index)

	require.NoError(t, s.SelectTab(TabRestaurant))
	require.NoError(t, s.NextPhoto(), "empty bucket stays at zero")
	assert.Equal(t, "", s.Gallery().Current)

	assert.Error(t, s.SelectTab("videos"))
}

func TestOpenGallery_BackfillFailureIsNotFatal(t *testing.T) {
	fb := seededBackend()
	fb.failures["GET /admin/api/hotels/h1"] = "Banque indisponible"
	s := readySession(t, fb)

	require.NoError(t, s.OpenGallery(context.Background(), "d1", ""))
	g := s.Gallery()
	assert.Empty(t, g.Buckets.Hotel)
	assert.Equal(t, TabPOI, g.Tab)
}

func TestOpenGallery_DetailFailureLeavesStateUnchanged(t *testing.T) {
	fb := seededBackend()
	fb.failures["GET /admin/api/trips/t1/days/d1"] = "Jour introuvable"
	s := readySession(t, fb)

	err := s.OpenGallery(context.Background(), "d1", "")
	require.Error(t, err)
	assert.Equal(t, StateReady, s.State())
	assert.Nil(t, s.Gallery())
}
