package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/internal/debounce"
	"github.com/OldiBike/mototrip-planner-sub000/logger"
	"github.com/OldiBike/mototrip-planner-sub000/types"
	"go.uber.org/zap"
)

// minSuggestRunes is the shortest query sent to the autocomplete.
const minSuggestRunes = 2

const (
	MissingCityMessage    = "Indiquez une ville pour lancer la recherche"
	NegativeGuestsMessage = "Le nombre de voyageurs ne peut pas être négatif"
)

// HotelSearchService fronts the public hotel search API for the console.
type HotelSearchService struct {
	client      adminapi.Caller
	debouncers  *debounce.Group
	defaultLang string
	log         *zap.SugaredLogger
}

func NewHotelSearchService(client adminapi.Caller, debounceDelay time.Duration, defaultLang string) *HotelSearchService {
	return &HotelSearchService{
		client:      client,
		debouncers:  debounce.NewGroup(debounceDelay),
		defaultLang: defaultLang,
		log:         logger.GetLogger(),
	}
}

// Suggest returns city and hotel suggestions for the typed query. Calls are
// debounced per console session: a newer call returns first and the older
// one gets debounce.ErrSuperseded without touching the backend. Queries
// shorter than two characters still supersede pending calls but return no
// suggestions.
func (s *HotelSearchService) Suggest(ctx context.Context, sessionID, query, lang string) ([]types.HotelSuggestion, error) {
	query = strings.TrimSpace(query)
	if lang == "" {
		lang = s.defaultLang
	}

	var suggestions []types.HotelSuggestion
	err := s.debouncers.Get(sessionID).Do(ctx, func(ctx context.Context) error {
		if utf8.RuneCountInString(query) < minSuggestRunes {
			suggestions = []types.HotelSuggestion{}
			return nil
		}
		var err error
		suggestions, err = adminapi.SuggestHotels(ctx, s.client, query, lang)
		return err
	})
	if err != nil {
		if err != debounce.ErrSuperseded {
			s.log.Debugw("Hotel suggestion failed", "query", query, "error", err)
		}
		return nil, err
	}
	return suggestions, nil
}

// SearchMotoFriendly checks and relays a moto-friendly hotel search. The
// body reaches the backend unchanged.
func (s *HotelSearchService) SearchMotoFriendly(ctx context.Context, search types.MotoFriendlySearch) (*types.MotoFriendlyResult, error) {
	if strings.TrimSpace(search.City) == "" && search.RegionID == "" {
		return nil, apperrors.ValidationFailed(MissingCityMessage, "city")
	}
	if search.Guests < 0 {
		return nil, apperrors.ValidationFailed(NegativeGuestsMessage, "guests")
	}
	result, err := adminapi.SearchMotoFriendly(ctx, s.client, search)
	if err != nil {
		return nil, err
	}
	if result.Hotels == nil {
		result.Hotels = []map[string]interface{}{}
	}
	return result, nil
}

// ForgetSession drops the debouncer of an evicted console session.
func (s *HotelSearchService) ForgetSession(sessionID string) {
	s.debouncers.Forget(sessionID)
}
