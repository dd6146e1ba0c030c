package catalog

import (
	"context"
	"fmt"
	"strconv"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/types"
	"golang.org/x/text/language"
)

func ratingPayload(f Form) (float64, error) {
	rating, ok := f.Float("rating")
	if !ok || rating < 0 || rating > 5 {
		return 0, apperrors.ValidationFailed("La note doit être comprise entre 0 et 5", f.Get("rating"))
	}
	return rating, nil
}

func formatRating(r float64) string {
	if r == 0 {
		return "-"
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}

func HotelDefinition() *Definition[types.Hotel] {
	return &Definition[types.Hotel]{
		Resource: "hotels",
		Title:    "Banque d'hôtels",
		Singular: "hôtel",
		ID:       func(h types.Hotel) string { return h.ID },
		SearchText: func(h types.Hotel) []string {
			return []string{h.Name, h.City, h.Address, h.Description}
		},
		Columns: []Column[types.Hotel]{
			{Label: "Nom", Value: func(h types.Hotel) string { return h.Name }},
			{Label: "Ville", Value: func(h types.Hotel) string { return h.City }},
			{Label: "Note", Value: func(h types.Hotel) string { return formatRating(h.Rating) }},
			{Label: "Utilisations", Value: func(h types.Hotel) string { return strconv.Itoa(h.UsageCount) }},
			{Label: "Photos", Value: func(h types.Hotel) string { return strconv.Itoa(len(h.Photos)) }},
		},
		Facets: []Facet[types.Hotel]{
			{Key: "city", Label: "Ville", Value: func(h types.Hotel) string { return h.City }},
		},
		Sorts: []SortField[types.Hotel]{
			{Key: "name", Label: "Nom", Text: func(h types.Hotel) string { return h.Name }},
			{Key: "city", Label: "Ville", Text: func(h types.Hotel) string { return h.City }},
			{Key: "rating", Label: "Note", Number: func(h types.Hotel) float64 { return h.Rating }},
			{Key: "usage", Label: "Utilisations", Number: func(h types.Hotel) float64 { return float64(h.UsageCount) }},
		},
		Fields: []Field{
			{Key: "name", Label: "Nom", Kind: KindText, Required: true},
			{Key: "city", Label: "Ville", Kind: KindText, Required: true},
			{Key: "address", Label: "Adresse", Kind: KindText},
			{Key: "website", Label: "Site web", Kind: KindURL},
			{Key: "rating", Label: "Note", Kind: KindNumber},
			{Key: "description", Label: "Description", Kind: KindTextarea},
		},
		ToForm: func(h types.Hotel) Form {
			return Form{
				"name":        h.Name,
				"city":        h.City,
				"address":     h.Address,
				"website":     h.Website,
				"rating":      formatFloat(h.Rating),
				"description": h.Description,
			}
		},
		Payload: func(f Form) (interface{}, error) {
			rating, err := ratingPayload(f)
			if err != nil {
				return nil, err
			}
			return types.HotelPayload{
				Name:        f.Get("name"),
				City:        f.Get("city"),
				Address:     f.Get("address"),
				Description: f.Get("description"),
				Website:     f.Get("website"),
				Rating:      rating,
			}, nil
		},
		DeleteWarning: func(h types.Hotel) string {
			if h.UsageCount > 0 {
				return fmt.Sprintf("Supprimer %s ? Cet hôtel est utilisé dans %d jour(s) de voyage.", h.Name, h.UsageCount)
			}
			return "Supprimer " + h.Name + " ?"
		},
	}
}

func PartnerDefinition() *Definition[types.Partner] {
	return &Definition[types.Partner]{
		Resource: "partners",
		Title:    "Partenaires",
		Singular: "partenaire",
		ID:       func(p types.Partner) string { return p.ID },
		SearchText: func(p types.Partner) []string {
			return []string{p.Name, p.City, p.Email, p.Description}
		},
		Columns: []Column[types.Partner]{
			{Label: "Nom", Value: func(p types.Partner) string { return p.Name }},
			{Label: "Catégorie", Value: func(p types.Partner) string { return p.Category }},
			{Label: "Ville", Value: func(p types.Partner) string { return p.City }},
			{Label: "Email", Value: func(p types.Partner) string { return p.Email }},
			{Label: "Téléphone", Value: func(p types.Partner) string { return p.Phone }},
		},
		Facets: []Facet[types.Partner]{
			{Key: "category", Label: "Catégorie", Value: func(p types.Partner) string { return p.Category }},
			{Key: "city", Label: "Ville", Value: func(p types.Partner) string { return p.City }},
		},
		Sorts: []SortField[types.Partner]{
			{Key: "name", Label: "Nom", Text: func(p types.Partner) string { return p.Name }},
			{Key: "city", Label: "Ville", Text: func(p types.Partner) string { return p.City }},
		},
		Fields: []Field{
			{Key: "name", Label: "Nom", Kind: KindText, Required: true},
			{Key: "category", Label: "Catégorie", Kind: KindText, Required: true},
			{Key: "city", Label: "Ville", Kind: KindText},
			{Key: "email", Label: "Email", Kind: KindEmail},
			{Key: "phone", Label: "Téléphone", Kind: KindTel},
			{Key: "website", Label: "Site web", Kind: KindURL},
			{Key: "description", Label: "Description", Kind: KindTextarea},
		},
		ToForm: func(p types.Partner) Form {
			return Form{
				"name":        p.Name,
				"category":    p.Category,
				"city":        p.City,
				"email":       p.Email,
				"phone":       p.Phone,
				"website":     p.Website,
				"description": p.Description,
			}
		},
		Payload: func(f Form) (interface{}, error) {
			return types.PartnerPayload{
				Name:        f.Get("name"),
				Category:    f.Get("category"),
				City:        f.Get("city"),
				Email:       f.Get("email"),
				Phone:       f.Get("phone"),
				Website:     f.Get("website"),
				Description: f.Get("description"),
			}, nil
		},
	}
}

func POIDefinition() *Definition[types.POI] {
	return &Definition[types.POI]{
		Resource: "pois",
		Title:    "Points d'intérêt",
		Singular: "point d'intérêt",
		ID:       func(p types.POI) string { return p.ID },
		SearchText: func(p types.POI) []string {
			return []string{p.Name, p.City, p.Address, p.Description}
		},
		Columns: []Column[types.POI]{
			{Label: "Nom", Value: func(p types.POI) string { return p.Name }},
			{Label: "Ville", Value: func(p types.POI) string { return p.City }},
			{Label: "Catégorie", Value: func(p types.POI) string { return p.Category }},
			{Label: "Utilisations", Value: func(p types.POI) string { return strconv.Itoa(p.UsageCount) }},
			{Label: "Photos", Value: func(p types.POI) string { return strconv.Itoa(len(p.Photos)) }},
		},
		Facets: []Facet[types.POI]{
			{Key: "city", Label: "Ville", Value: func(p types.POI) string { return p.City }},
			{Key: "category", Label: "Catégorie", Value: func(p types.POI) string { return p.Category }},
		},
		Sorts: []SortField[types.POI]{
			{Key: "name", Label: "Nom", Text: func(p types.POI) string { return p.Name }},
			{Key: "city", Label: "Ville", Text: func(p types.POI) string { return p.City }},
			{Key: "usage", Label: "Utilisations", Number: func(p types.POI) float64 { return float64(p.UsageCount) }},
		},
		Fields: []Field{
			{Key: "name", Label: "Nom", Kind: KindText, Required: true},
			{Key: "city", Label: "Ville", Kind: KindText, Required: true},
			{Key: "category", Label: "Catégorie", Kind: KindText},
			{Key: "address", Label: "Adresse", Kind: KindText},
			{Key: "description", Label: "Description", Kind: KindTextarea},
		},
		ToForm: func(p types.POI) Form {
			return Form{
				"name":        p.Name,
				"city":        p.City,
				"category":    p.Category,
				"address":     p.Address,
				"description": p.Description,
			}
		},
		Payload: func(f Form) (interface{}, error) {
			return types.POIPayload{
				Name:        f.Get("name"),
				City:        f.Get("city"),
				Category:    f.Get("category"),
				Address:     f.Get("address"),
				Description: f.Get("description"),
			}, nil
		},
	}
}

func RestaurantDefinition() *Definition[types.Restaurant] {
	return &Definition[types.Restaurant]{
		Resource: "restaurants",
		Title:    "Restaurants",
		Singular: "restaurant",
		ID:       func(r types.Restaurant) string { return r.ID },
		SearchText: func(r types.Restaurant) []string {
			return []string{r.Name, r.City, r.Address, r.Description}
		},
		Columns: []Column[types.Restaurant]{
			{Label: "Nom", Value: func(r types.Restaurant) string { return r.Name }},
			{Label: "Ville", Value: func(r types.Restaurant) string { return r.City }},
			{Label: "Cuisine", Value: func(r types.Restaurant) string { return r.CuisineType }},
			{Label: "Note", Value: func(r types.Restaurant) string { return formatRating(r.Rating) }},
		},
		Facets: []Facet[types.Restaurant]{
			{Key: "city", Label: "Ville", Value: func(r types.Restaurant) string { return r.City }},
			{Key: "cuisine", Label: "Cuisine", Value: func(r types.Restaurant) string { return r.CuisineType }},
		},
		Sorts: []SortField[types.Restaurant]{
			{Key: "name", Label: "Nom", Text: func(r types.Restaurant) string { return r.Name }},
			{Key: "city", Label: "Ville", Text: func(r types.Restaurant) string { return r.City }},
			{Key: "rating", Label: "Note", Number: func(r types.Restaurant) float64 { return r.Rating }},
		},
		Fields: []Field{
			{Key: "name", Label: "Nom", Kind: KindText, Required: true},
			{Key: "city", Label: "Ville", Kind: KindText, Required: true},
			{Key: "cuisineType", Label: "Type de cuisine", Kind: KindText},
			{Key: "address", Label: "Adresse", Kind: KindText},
			{Key: "rating", Label: "Note", Kind: KindNumber},
			{Key: "description", Label: "Description", Kind: KindTextarea},
		},
		ToForm: func(r types.Restaurant) Form {
			return Form{
				"name":        r.Name,
				"city":        r.City,
				"cuisineType": r.CuisineType,
				"address":     r.Address,
				"rating":      formatFloat(r.Rating),
				"description": r.Description,
			}
		},
		Payload: func(f Form) (interface{}, error) {
			rating, err := ratingPayload(f)
			if err != nil {
				return nil, err
			}
			return types.RestaurantPayload{
				Name:        f.Get("name"),
				City:        f.Get("city"),
				CuisineType: f.Get("cuisineType"),
				Address:     f.Get("address"),
				Description: f.Get("description"),
				Rating:      rating,
			}, nil
		},
	}
}

// PhotoList is a bank list whose entries accept photo uploads.
type PhotoList[T any] struct {
	*List[T]
}

func NewPhotoList[T any](def *Definition[T], client adminapi.Caller, lang language.Tag) *PhotoList[T] {
	return &PhotoList[T]{List: NewList(def, client, lang)}
}

// UploadPhotos sends images to one entry and reloads the list. Files that do
// not sniff as images are rejected before any request is issued.
func (p *PhotoList[T]) UploadPhotos(ctx context.Context, id string, files []adminapi.File) (int, error) {
	if _, _, ok := p.find(id); !ok {
		return 0, apperrors.NotFound(p.def.Singular, id)
	}
	if len(files) == 0 {
		return 0, apperrors.ValidationFailed("Aucune photo sélectionnée", "")
	}
	for i := range files {
		if !adminapi.IsImage(files[i].Content) {
			return 0, apperrors.ValidationFailed("Le fichier « "+files[i].Filename+" » n'est pas une image", files[i].ContentType())
		}
		files[i].Field = "photos"
	}

	count, err := adminapi.UploadPhotos(ctx, p.client, p.def.Resource, id, files)
	if err != nil {
		return 0, err
	}
	return count, p.reloadAfterMutation(ctx)
}
