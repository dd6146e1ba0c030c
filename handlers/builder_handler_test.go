package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderPage_RendersTrip(t *testing.T) {
	b, _ := newConsole(t)

	doc := b.page("/builder/t1")
	assert.Equal(t, "Alpes 2026", doc.Find("section.builder h1").Text())
	assert.Equal(t, "Brouillon", doc.Find(".publish .status").Text())
	assert.Equal(t, 0, doc.Find("a.public-url").Length())

	card := doc.Find("article.day-card[data-day=d1]")
	require.Equal(t, 1, card.Length())
	assert.Equal(t, "Jour 1 : Aravis", card.Find("h3").Text())
	assert.Equal(t, "Annecy → Chamonix", card.Find(".route").Text())
	assert.Equal(t, "98 km", card.Find(".distance").Text())
	assert.Equal(t, "Col des Aravis", card.Find(".pois").Text())
	assert.Contains(t, card.Find(".price").Text(), "120 €")
	assert.Equal(t, 0, card.Find(".track").Length())

	assert.Contains(t, doc.Find(".pricing .costs").Text(), "100 €")
	assert.Equal(t, "75", doc.Find("input[name=salePricePerPerson]").AttrOr("value", ""))
}

func TestBuilderPage_BackendDown(t *testing.T) {
	b, _ := newConsole(t)

	doc := b.page("/builder/missing")
	assert.Equal(t, 1, doc.Find(".load-error").Length())
	assert.Equal(t, "/builder/missing/reload", doc.Find("section.builder form").AttrOr("action", ""))
	assert.Contains(t, doc.Find(".toast-error").Text(), "Introuvable")
}

func TestBuilderPublish_TogglesAndShowsPublicURL(t *testing.T) {
	b, fb := newConsole(t)
	b.page("/builder/t1")

	w := b.post("/builder/t1/publish", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/builder/t1", w.Header().Get("Location"))

	body, _ := fb.sent("PUT /admin/api/trips/t1")
	assert.JSONEq(t, `{"isPublished":true}`, body)

	doc := b.page("/builder/t1")
	assert.Equal(t, "Publié", doc.Find(".publish .status").Text())
	assert.Equal(t, "https://voyages.example.com/voyages/alpes-2026", doc.Find("a.public-url").AttrOr("href", ""))
	assert.Contains(t, doc.Find(".toast-success").Text(), "Voyage publié")
}

func TestBuilderDayModal_AddPOIAndSave(t *testing.T) {
	b, fb := newConsole(t)
	b.page("/builder/t1")

	b.post("/builder/t1/days", url.Values{})
	doc := b.page("/builder/t1")
	require.Equal(t, 1, doc.Find("dialog.day-modal").Length())
	assert.Equal(t, "Nouveau jour", doc.Find("dialog.day-modal h2").Text())
	assert.Equal(t, "1", doc.Find("input[name=nights]").AttrOr("value", ""))
	assert.GreaterOrEqual(t, doc.Find("select[name=hotelId] option").Length(), 2)

	// The typed fields survive the partial action.
	b.post("/builder/t1/modal/pois", url.Values{"dayName": {"Iseran"}, "city": {"Val d'Isère"}, "poi": {"Col de l'Iseran"}})
	doc = b.page("/builder/t1")
	assert.Equal(t, "Val d'Isère", doc.Find("input[name=city]").AttrOr("value", ""))
	assert.Contains(t, doc.Find(".day-modal .pois li").First().Text(), "Col de l'Iseran")

	w := b.post("/builder/t1/modal/save", url.Values{
		"dayName": {"Iseran"}, "city": {"Val d'Isère"}, "startCity": {"Bourg-Saint-Maurice"}, "endCity": {"Val d'Isère"},
		"distance": {"31"}, "priceDouble": {"90"}, "priceSolo": {"70"}, "nights": {"1"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	raw, ok := fb.sent("POST /admin/api/trips/t1/days")
	require.True(t, ok)
	var saved map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &saved))
	assert.Equal(t, "Iseran", saved["dayName"])
	assert.Equal(t, 31.0, saved["distance"])
	pois := saved["pois"].([]interface{})
	require.Len(t, pois, 1)
	assert.Equal(t, "Col de l'Iseran", pois[0].(map[string]interface{})["name"])

	doc = b.page("/builder/t1")
	assert.Equal(t, 0, doc.Find("dialog.day-modal").Length())
	assert.Equal(t, 2, doc.Find("article.day-card").Length())
	assert.Contains(t, doc.Find(".toast-success").Text(), "Jour ajouté")
}

func TestBuilderDayModal_SaveRequiresName(t *testing.T) {
	b, fb := newConsole(t)
	b.page("/builder/t1")
	b.post("/builder/t1/days", url.Values{})

	b.post("/builder/t1/modal/save", url.Values{"dayName": {" "}, "city": {"Gap"}})

	_, sent := fb.sent("POST /admin/api/trips/t1/days")
	assert.False(t, sent)
	doc := b.page("/builder/t1")
	assert.Equal(t, 1, doc.Find("dialog.day-modal").Length())
	assert.Contains(t, doc.Find(".toast-error").Text(), "Le nom du jour est obligatoire")
}

func TestBuilderSimulate(t *testing.T) {
	b, _ := newConsole(t)
	b.page("/builder/t1")

	b.post("/builder/t1/simulate", url.Values{"nbDouble": {"2"}, "nbSolo": {"1"}})
	doc := b.page("/builder/t1")
	result := doc.Find("dl.result")
	assert.Equal(t, "280 €", result.Find(".total-cost").Text())
	assert.Equal(t, "410 €", result.Find(".total-sale").Text())
	assert.Equal(t, "130 €", result.Find(".margin").Text())
	assert.Equal(t, "31.7%", result.Find(".margin-percent").Text())
	assert.False(t, result.HasClass("negative"))
	assert.Equal(t, "2", doc.Find("input[name=nbDouble]").AttrOr("value", ""))

	b.post("/builder/t1/simulate", url.Values{"nbDouble": {"deux"}, "nbSolo": {"1"}})
	doc = b.page("/builder/t1")
	assert.Equal(t, 1, doc.Find(".toast-error").Length())
}

func TestBuilderSalePrice(t *testing.T) {
	b, fb := newConsole(t)
	b.page("/builder/t1")

	b.post("/builder/t1/sale-price", url.Values{"salePricePerPerson": {"89,50"}})
	body, _ := fb.sent("PUT /admin/api/trips/t1")
	assert.JSONEq(t, `{"salePricePerPerson":89.5}`, body)

	doc := b.page("/builder/t1")
	assert.Contains(t, doc.Find(".toast-success").Text(), "Prix de vente enregistré")
}

func TestBuilderDeleteDay_Confirms(t *testing.T) {
	b, fb := newConsole(t)
	b.page("/builder/t1")

	doc := b.page("/builder/t1/days/d1/delete")
	assert.Equal(t, "Supprimer le jour « Aravis » ?", doc.Find(".confirm-message").Text())
	_, sent := fb.sent("DELETE /admin/api/trips/t1/days/d1")
	assert.False(t, sent)

	b.post("/builder/t1/days/d1/delete", url.Values{"confirm": {"yes"}})
	_, sent = fb.sent("DELETE /admin/api/trips/t1/days/d1")
	assert.True(t, sent)

	doc = b.page("/builder/t1")
	assert.Equal(t, 0, doc.Find("article.day-card").Length())
	assert.Contains(t, doc.Find(".toast-success").Text(), "Jour supprimé")
}

func TestBuilderMap_NoTracks(t *testing.T) {
	b, _ := newConsole(t)
	b.page("/builder/t1")

	w := b.do(http.MethodGet, "/builder/t1/map", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hidden":true,"tracks":[],"bounds":null}`, w.Body.String())
}

func TestBuilderMap_NotLoaded(t *testing.T) {
	b, _ := newConsole(t)

	w := b.do(http.MethodGet, "/builder/t1/map", nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "INVALID_STATE"))
}

func TestBuilderForms_RejectedValues(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		form    url.Values
		message string
	}{
		{name: "negative rooms", path: "/builder/t1/simulate", form: url.Values{"nbDouble": {"-2"}}, message: "Valeur invalide pour « Chambres doubles »"},
		{name: "missing sale price", path: "/builder/t1/sale-price", form: url.Values{}, message: "Prix de vente invalide"},
		{name: "text sale price", path: "/builder/t1/sale-price", form: url.Values{"salePricePerPerson": {"cher"}}, message: "Prix de vente invalide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, fb := newConsole(t)
			b.page("/builder/t1")

			b.post(tt.path, tt.form)

			_, sent := fb.sent("PUT /admin/api/trips/t1")
			assert.False(t, sent)
			doc := b.page("/builder/t1")
			assert.Contains(t, doc.Find(".toast-error").Text(), tt.message)
		})
	}
}

func TestBuilderSalePrice_ThousandsSeparator(t *testing.T) {
	b, fb := newConsole(t)
	b.page("/builder/t1")

	b.post("/builder/t1/sale-price", url.Values{"salePricePerPerson": {"1 250,50"}})
	body, _ := fb.sent("PUT /admin/api/trips/t1")
	assert.JSONEq(t, `{"salePricePerPerson":1250.5}`, body)
}
