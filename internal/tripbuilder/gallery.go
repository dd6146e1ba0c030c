package tripbuilder

import (
	"context"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/logger"
	"github.com/OldiBike/mototrip-planner-sub000/types"
)

type Tab string

const (
	TabHotel      Tab = "hotel"
	TabPOI        Tab = "poi"
	TabRestaurant Tab = "restaurant"
	TabMedia      Tab = "media"
)

// TabOrder is the priority used to pick the initial tab.
var TabOrder = []Tab{TabHotel, TabPOI, TabRestaurant, TabMedia}

var tabLabels = map[Tab]string{
	TabHotel:      "Hôtel",
	TabPOI:        "Points d'intérêt",
	TabRestaurant: "Restaurants",
	TabMedia:      "Médias",
}

func (t Tab) Valid() bool {
	_, ok := tabLabels[t]
	return ok
}

// Buckets are the photo URLs of a day grouped by source.
type Buckets struct {
	Hotel      []string
	POI        []string
	Restaurant []string
	Media      []string
}

func (b Buckets) Get(tab Tab) []string {
	switch tab {
	case TabHotel:
		return b.Hotel
	case TabPOI:
		return b.POI
	case TabRestaurant:
		return b.Restaurant
	case TabMedia:
		return b.Media
	}
	return nil
}

// BuildBuckets merges the cached day, its fresh detail and hotel-bank
// photos. URLs are deduplicated in first-seen order.
func BuildBuckets(cached, fresh types.Day, hotelBank []string) Buckets {
	return Buckets{
		Hotel:      merge(cached.HotelPhotos, fresh.HotelPhotos, hotelBank),
		POI:        merge(placePhotos(cached.POIs), placePhotos(fresh.POIs)),
		Restaurant: merge(placePhotos(cached.Restaurants), placePhotos(fresh.Restaurants)),
		Media:      merge(cached.Photos, fresh.Photos),
	}
}

func placePhotos(refs []types.PlaceRef) []string {
	var out []string
	for _, r := range refs {
		out = append(out, r.Photos...)
	}
	return out
}

func merge(sources ...[]string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, src := range sources {
		for _, u := range src {
			if u == "" {
				continue
			}
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			out = append(out, u)
		}
	}
	return out
}

// InitialTab returns requested when it has photos, else the first non-empty
// bucket in TabOrder. An empty gallery opens on the hotel tab.
func InitialTab(b Buckets, requested Tab) Tab {
	if requested.Valid() && len(b.Get(requested)) > 0 {
		return requested
	}
	for _, tab := range TabOrder {
		if len(b.Get(tab)) > 0 {
			return tab
		}
	}
	return TabHotel
}

// Wrap moves index by delta inside a bucket of length n, circularly.
func Wrap(index, delta, n int) int {
	if n <= 0 {
		return 0
	}
	return ((index+delta)%n + n) % n
}

type gallery struct {
	dayID   string
	dayName string
	buckets Buckets
	tab     Tab
	index   int
}

type TabView struct {
	Tab    Tab
	Label  string
	Count  int
	Active bool
}

// GalleryView is the open gallery as rendered.
type GalleryView struct {
	DayID   string
	DayName string
	Tab     Tab
	Index   int
	Current string
	Photos  []string
	Tabs    []TabView
	Buckets Buckets
}

// OpenGallery rebuilds the photo buckets of a day. A failed day fetch leaves
// the session unchanged; a failed hotel-bank backfill only drops those photos.
func (s *Session) OpenGallery(ctx context.Context, dayID string, requested Tab) error {
	if err := s.guard("open the gallery", StateReady); err != nil {
		return err
	}
	cached, ok := s.findDay(dayID)
	if !ok {
		return apperrors.NotFound("Jour", dayID)
	}

	fresh, err := adminapi.GetDay(ctx, s.client, s.tripID, dayID)
	if err != nil {
		return err
	}

	var backfill []string
	hotelID := fresh.HotelID
	if hotelID == "" {
		hotelID = cached.HotelID
	}
	if hotelID != "" && len(cached.HotelPhotos) == 0 && len(fresh.HotelPhotos) == 0 {
		hotel, err := adminapi.GetHotel(ctx, s.client, hotelID)
		if err != nil {
			logger.GetLogger().Warnw("Hotel photo backfill failed", "tripID", s.tripID, "dayID", dayID, "hotelID", hotelID, "error", err)
		} else {
			backfill = hotel.Photos
		}
	}

	buckets := BuildBuckets(cached, *fresh, backfill)
	s.gallery = &gallery{
		dayID:   dayID,
		dayName: cached.DayName,
		buckets: buckets,
		tab:     InitialTab(buckets, requested),
	}
	s.state = StateGalleryOpen
	return nil
}

func (s *Session) Gallery() *GalleryView {
	if s.gallery == nil {
		return nil
	}
	g := s.gallery
	photos := g.buckets.Get(g.tab)
	view := &GalleryView{
		DayID:   g.dayID,
		DayName: g.dayName,
		Tab:     g.tab,
		Index:   g.index,
		Photos:  append([]string(nil), photos...),
		Buckets: g.buckets,
	}
	if len(photos) > 0 {
		view.Current = photos[g.index]
	}
	for _, tab := range TabOrder {
		view.Tabs = append(view.Tabs, TabView{
			Tab:    tab,
			Label:  tabLabels[tab],
			Count:  len(g.buckets.Get(tab)),
			Active: tab == g.tab,
		})
	}
	return view
}

func (s *Session) move(delta int) error {
	if err := s.guard("browse the gallery", StateGalleryOpen); err != nil {
		return err
	}
	n := len(s.gallery.buckets.Get(s.gallery.tab))
	s.gallery.index = Wrap(s.gallery.index, delta, n)
	return nil
}

func (s *Session) NextPhoto() error { return s.move(1) }
func (s *Session) PrevPhoto() error { return s.move(-1) }

func (s *Session) SelectTab(tab Tab) error {
	if err := s.guard("switch gallery tab", StateGalleryOpen); err != nil {
		return err
	}
	if !tab.Valid() {
		return apperrors.ValidationFailed("Onglet inconnu", string(tab))
	}
	s.gallery.tab = tab
	s.gallery.index = 0
	return nil
}

// CloseGallery discards the aggregated buckets.
func (s *Session) CloseGallery() error {
	if err := s.guard("close the gallery", StateGalleryOpen); err != nil {
		return err
	}
	s.gallery = nil
	s.state = StateReady
	return nil
}
