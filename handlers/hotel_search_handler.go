package handlers

import (
	"errors"
	"net/http"

	"github.com/OldiBike/mototrip-planner-sub000/internal/debounce"
	"github.com/OldiBike/mototrip-planner-sub000/middleware"
	"github.com/OldiBike/mototrip-planner-sub000/services"
	"github.com/OldiBike/mototrip-planner-sub000/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// HotelSearchHandler exposes the public hotel search to the page script.
type HotelSearchHandler struct {
	search *services.HotelSearchService
}

func NewHotelSearchHandler(search *services.HotelSearchService) *HotelSearchHandler {
	return &HotelSearchHandler{search: search}
}

// Suggest answers the autocomplete. A call overtaken by a newer keystroke
// of the same session gets 204 so the script keeps the newer results.
func (h *HotelSearchHandler) Suggest(c *gin.Context) {
	suggestions, err := h.search.Suggest(c.Request.Context(), middleware.SessionID(c), c.Query("q"), c.Query("lang"))
	if errors.Is(err, debounce.ErrSuperseded) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

var motoFriendlyMessages = map[string]string{
	"City":   services.MissingCityMessage,
	"Guests": services.NegativeGuestsMessage,
}

// SearchMotoFriendly relays a moto-friendly search. The body is bound twice:
// once into the typed search for validation, once as-is for the relay.
func (h *HotelSearchHandler) SearchMotoFriendly(c *gin.Context) {
	var req types.MotoFriendlySearch
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		_ = c.Error(bindError(err, motoFriendlyMessages))
		return
	}
	if err := c.ShouldBindBodyWith(&req.Fields, binding.JSON); err != nil {
		_ = c.Error(bindError(err, nil))
		return
	}
	result, err := h.search.SearchMotoFriendly(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}
