package tripbuilder

import (
	"context"
	"strconv"
	"strings"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/internal/modal"
	"github.com/OldiBike/mototrip-planner-sub000/pkg/valueobjects"
	"github.com/OldiBike/mototrip-planner-sub000/types"
)

// PendingAsset is a day whose metadata is saved but whose GPX upload failed.
type PendingAsset struct {
	DayID    string
	Filename string
	Err      string
}

// DayForm carries the text inputs of the day modal. Numbers stay text so
// that French decimals ("89,50") reach parseNumber untouched.
type DayForm struct {
	DayName     string `form:"dayName" binding:"required"`
	City        string `form:"city"`
	StartCity   string `form:"startCity"`
	EndCity     string `form:"endCity"`
	Distance    string `form:"distance"`
	HotelName   string `form:"hotelName"`
	HotelLink   string `form:"hotelLink"`
	PriceDouble string `form:"priceDouble"`
	PriceSolo   string `form:"priceSolo"`
	Nights      string `form:"nights" binding:"omitempty,numeric"`
	GPXFile     string `form:"gpxFile"`
}

// FormFromDay prefills the modal inputs.
func FormFromDay(d types.Day) DayForm {
	return DayForm{
		DayName:     d.DayName,
		City:        d.City,
		StartCity:   d.StartCity,
		EndCity:     d.EndCity,
		Distance:    formatNumber(d.Distance),
		HotelName:   d.HotelName,
		HotelLink:   d.HotelLink,
		PriceDouble: formatNumber(d.PriceDouble),
		PriceSolo:   formatNumber(d.PriceSolo),
		Nights:      formatInt(d.Nights),
		GPXFile:     d.GPXFile,
	}
}

func formatNumber(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func parseNumber(label, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := valueobjects.ParseDecimal(raw)
	if err != nil || d.IsNegative() {
		return 0, apperrors.ValidationFailed("Valeur invalide pour « "+label+" »", raw)
	}
	v, _ := d.Float64()
	return v, nil
}

func parsePrice(label, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	price, err := valueobjects.NewMoneyFromString(raw, string(valueobjects.EUR))
	if err != nil || price.IsNegative() {
		return 0, apperrors.ValidationFailed("Valeur invalide pour « "+label+" »", raw)
	}
	return price.Float(), nil
}

// apply copies the form onto day. day is untouched when a value is invalid.
func (f DayForm) apply(day *types.Day) error {
	if strings.TrimSpace(f.DayName) == "" {
		return apperrors.ValidationFailed("Le nom du jour est obligatoire", "dayName")
	}
	distance, err := parseNumber("Distance", f.Distance)
	if err != nil {
		return err
	}
	priceDouble, err := parsePrice("Prix chambre double", f.PriceDouble)
	if err != nil {
		return err
	}
	priceSolo, err := parsePrice("Prix chambre solo", f.PriceSolo)
	if err != nil {
		return err
	}
	nights := 1
	if raw := strings.TrimSpace(f.Nights); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return apperrors.ValidationFailed("Valeur invalide pour « Nuits »", raw)
		}
		if n > 0 {
			nights = n
		}
	}

	day.DayName = f.DayName
	day.City = f.City
	day.StartCity = f.StartCity
	day.EndCity = f.EndCity
	day.Distance = distance
	day.HotelName = f.HotelName
	day.HotelLink = f.HotelLink
	day.PriceDouble = priceDouble
	day.PriceSolo = priceSolo
	day.Nights = nights
	day.GPXFile = f.GPXFile
	return nil
}

// DayModalView is the state of the day dialog.
type DayModalView struct {
	Open   bool
	Create bool
	Day    types.Day
	Form   DayForm
	Hotels []HotelOption
}

// NewDay opens the day modal in create mode.
func (s *Session) NewDay() error {
	if err := s.guard("create a day", StateReady); err != nil {
		return err
	}
	s.dayModal.OpenCreate()
	s.dayModal.SetDraft(types.Day{Nights: 1, POIs: []types.PlaceRef{}, Restaurants: []types.PlaceRef{}})
	s.state = StateDayModalOpen
	return nil
}

// OpenDay opens the day modal on a copy of a cached day.
func (s *Session) OpenDay(id string) error {
	if err := s.guard("edit a day", StateReady); err != nil {
		return err
	}
	day, ok := s.findDay(id)
	if !ok {
		return apperrors.NotFound("Jour", id)
	}
	s.dayModal.OpenEdit(day.Clone())
	s.state = StateDayModalOpen
	return nil
}

func (s *Session) DayModal() DayModalView {
	if !s.dayModal.IsOpen() {
		return DayModalView{}
	}
	draft := s.dayModal.Draft()
	return DayModalView{
		Open:   true,
		Create: s.dayModal.Mode() == modal.ModeCreate,
		Day:    draft.Clone(),
		Form:   FormFromDay(draft),
		Hotels: s.HotelOptions(),
	}
}

// CloseDay discards the draft. An in-flight save is not affected.
func (s *Session) CloseDay() error {
	if err := s.guard("close the day modal", StateDayModalOpen); err != nil {
		return err
	}
	s.dayModal.Close()
	s.state = StateReady
	return nil
}

// UpdateDraft keeps typed values across the modal's partial actions.
func (s *Session) UpdateDraft(form DayForm) error {
	if err := s.guard("edit the day", StateDayModalOpen); err != nil {
		return err
	}
	draft := s.dayModal.Draft().Clone()
	if err := form.apply(&draft); err != nil {
		return err
	}
	s.dayModal.SetDraft(draft)
	return nil
}

func (s *Session) editDraft(action string, fn func(*types.Day) error) error {
	if err := s.guard(action, StateDayModalOpen); err != nil {
		return err
	}
	draft := s.dayModal.Draft().Clone()
	if err := fn(&draft); err != nil {
		return err
	}
	s.dayModal.SetDraft(draft)
	return nil
}

func (s *Session) AddPOI(name string) error {
	return s.editDraft("add a POI", func(d *types.Day) error {
		ref, ok := types.NewPlaceRef(name)
		if !ok {
			return apperrors.ValidationFailed("Le nom du point d'intérêt est obligatoire", "poi")
		}
		d.POIs = append(d.POIs, ref)
		return nil
	})
}

func (s *Session) RemovePOI(index int) error {
	return s.editDraft("remove a POI", func(d *types.Day) error {
		refs, err := removeAt(d.POIs, index)
		d.POIs = refs
		return err
	})
}

func (s *Session) AddRestaurant(name string) error {
	return s.editDraft("add a restaurant", func(d *types.Day) error {
		ref, ok := types.NewPlaceRef(name)
		if !ok {
			return apperrors.ValidationFailed("Le nom du restaurant est obligatoire", "restaurant")
		}
		d.Restaurants = append(d.Restaurants, ref)
		return nil
	})
}

func (s *Session) RemoveRestaurant(index int) error {
	return s.editDraft("remove a restaurant", func(d *types.Day) error {
		refs, err := removeAt(d.Restaurants, index)
		d.Restaurants = refs
		return err
	})
}

func removeAt(refs []types.PlaceRef, index int) ([]types.PlaceRef, error) {
	if index < 0 || index >= len(refs) {
		return refs, apperrors.ValidationFailed("Élément introuvable", strconv.Itoa(index))
	}
	out := make([]types.PlaceRef, 0, len(refs)-1)
	out = append(out, refs[:index]...)
	return append(out, refs[index+1:]...), nil
}

// SaveResult reports what a day save committed.
type SaveResult struct {
	DayID    string
	Created  bool
	Degraded bool
}

// SaveDay saves the day metadata and then, when gpx is given, uploads the
// track for the id the first step returned. The two steps are not atomic: a
// failed upload keeps the saved metadata and records a PendingAsset that
// RetryGPX clears. The returned error is then a PartialFailure.
func (s *Session) SaveDay(ctx context.Context, form DayForm, gpx *adminapi.File) (SaveResult, error) {
	if err := s.guard("save the day", StateDayModalOpen); err != nil {
		return SaveResult{}, err
	}

	draft := s.dayModal.Draft().Clone()
	if err := form.apply(&draft); err != nil {
		return SaveResult{}, err
	}
	if gpx != nil {
		if !adminapi.IsGPX(gpx.Content) {
			s.dayModal.SetDraft(draft)
			return SaveResult{}, apperrors.ValidationFailed("Le fichier « "+gpx.Filename+" » n'est pas un fichier GPX", gpx.ContentType())
		}
		if draft.GPXFile == "" {
			draft.GPXFile = gpx.Filename
		}
	}

	created := draft.ID == ""
	dayID, err := adminapi.SaveDay(ctx, s.client, s.tripID, draft)
	if err != nil {
		s.dayModal.SetDraft(draft)
		return SaveResult{}, err
	}

	s.dayModal.Close()
	s.state = StateReady
	result := SaveResult{DayID: dayID, Created: created}

	var stepErr error
	if gpx != nil {
		if err := adminapi.UploadDayGPX(ctx, s.client, s.tripID, dayID, *gpx); err != nil {
			s.pending[dayID] = PendingAsset{DayID: dayID, Filename: gpx.Filename, Err: apperrors.UserMessage(err)}
			result.Degraded = true
			stepErr = apperrors.PartialFailure("Jour enregistré, mais le fichier GPX n'a pas pu être envoyé : "+apperrors.UserMessage(err), err)
		} else {
			delete(s.pending, dayID)
		}
	}

	if err := s.LoadDays(ctx); err != nil && stepErr == nil {
		stepErr = apperrors.PartialFailure("Jour enregistré, mais la liste n'a pas pu être rechargée", err)
	}
	return result, stepErr
}

// PendingAssets lists the days waiting for a GPX upload.
func (s *Session) PendingAssets() []PendingAsset {
	out := make([]PendingAsset, 0, len(s.pending))
	for _, d := range s.days {
		if p, ok := s.pending[d.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// RetryGPX uploads a track for a saved day, clearing its PendingAsset on success.
func (s *Session) RetryGPX(ctx context.Context, dayID string, gpx adminapi.File) error {
	if err := s.guard("upload a track", StateReady); err != nil {
		return err
	}
	if _, ok := s.findDay(dayID); !ok {
		return apperrors.NotFound("Jour", dayID)
	}
	if !adminapi.IsGPX(gpx.Content) {
		return apperrors.ValidationFailed("Le fichier « "+gpx.Filename+" » n'est pas un fichier GPX", gpx.ContentType())
	}
	if err := adminapi.UploadDayGPX(ctx, s.client, s.tripID, dayID, gpx); err != nil {
		s.pending[dayID] = PendingAsset{DayID: dayID, Filename: gpx.Filename, Err: apperrors.UserMessage(err)}
		return err
	}
	delete(s.pending, dayID)
	return s.LoadDays(ctx)
}

// DeleteDay deletes a day after confirmation and reloads the whole list.
func (s *Session) DeleteDay(ctx context.Context, dayID string, confirm func(message string) bool) (bool, error) {
	if err := s.guard("delete a day", StateReady); err != nil {
		return false, err
	}
	day, ok := s.findDay(dayID)
	if !ok {
		return false, apperrors.NotFound("Jour", dayID)
	}
	if !confirm("Supprimer le jour « " + day.DayName + " » ?") {
		return false, nil
	}
	if err := adminapi.DeleteDay(ctx, s.client, s.tripID, dayID); err != nil {
		return false, err
	}
	delete(s.pending, dayID)
	if err := s.LoadDays(ctx); err != nil {
		return true, apperrors.PartialFailure("Jour supprimé, mais la liste n'a pas pu être rechargée", err)
	}
	return true, nil
}
