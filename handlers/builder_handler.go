package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/internal/console"
	"github.com/OldiBike/mototrip-planner-sub000/internal/notify"
	"github.com/OldiBike/mototrip-planner-sub000/internal/tripbuilder"
	"github.com/OldiBike/mototrip-planner-sub000/pkg/valueobjects"
	"github.com/OldiBike/mototrip-planner-sub000/types"
	"github.com/gin-gonic/gin"
)

// BuilderHandler serves the trip builder screen. Every action runs against
// the builder session of the trip in the caller's workspace and redirects
// back to the page.
type BuilderHandler struct {
	pages
}

func NewBuilderHandler(registry *console.Registry, toasts *notify.Service) *BuilderHandler {
	return &BuilderHandler{pages: pages{registry: registry, toasts: toasts}}
}

type builderPage struct {
	Layout
	TripID     string
	State      tripbuilder.State
	Ready      bool
	Trip       *types.Trip
	PublicURL  string
	Cards      []tripbuilder.DayCard
	Pending    []tripbuilder.PendingAsset
	Pricing    tripbuilder.Pricing
	Occupancy  tripbuilder.SimulationInput
	Simulation tripbuilder.SimulationDisplay
	SalePrice  string
	Modal      tripbuilder.DayModalView
	Gallery    *tripbuilder.GalleryView
}

func builderURL(tripID string) string {
	return "/builder/" + tripID
}

// action is one builder mutation. A non-empty message is shown on success.
type action func(ctx context.Context, s *tripbuilder.Session) (string, error)

// run executes fn under the workspace lock, turns the outcome into toasts
// and redirects to the builder page.
func (h *BuilderHandler) run(c *gin.Context, fn action) {
	tripID := c.Param("tripId")
	var message string
	err := h.workspace(c).Do(func(ws *console.Workspace) error {
		var err error
		message, err = fn(c.Request.Context(), ws.Trip(tripID))
		return err
	})
	if err == nil && message != "" {
		h.success(c, message)
	}
	h.flash(c, err)
	h.redirect(c, builderURL(tripID))
}

// Page renders the builder, loading the trip on first visit.
func (h *BuilderHandler) Page(c *gin.Context) {
	tripID := c.Param("tripId")
	var (
		data    builderPage
		initErr error
	)
	_ = h.workspace(c).Do(func(ws *console.Workspace) error {
		s := ws.Trip(tripID)
		if s.State() == tripbuilder.StateUninitialized {
			initErr = s.Init(c.Request.Context())
		}
		data = newBuilderPage(s)
		return nil
	})
	if errors.Is(initErr, tripbuilder.ErrMissingTripID) {
		h.renderError(c, apperrors.ValidationFailed("Aucun voyage sélectionné", ""))
		return
	}
	h.flash(c, initErr)

	title := "Voyage"
	if data.Trip != nil {
		title = data.Trip.Name
	}
	data.Layout = h.layout(c, title, "")
	c.HTML(http.StatusOK, "builder.html", data)
}

func newBuilderPage(s *tripbuilder.Session) builderPage {
	data := builderPage{
		TripID: s.TripID(),
		State:  s.State(),
		Ready:  s.State() != tripbuilder.StateUninitialized && s.State() != tripbuilder.StateLoading,
	}
	if !data.Ready {
		return data
	}
	last := s.LastSimulation()
	data.Trip = s.Trip()
	data.PublicURL = s.PublicURL()
	data.Cards = s.Cards()
	data.Pending = s.PendingAssets()
	data.Pricing = s.Pricing()
	data.Occupancy = last.Input
	data.Simulation = last.Display()
	if price := data.Pricing.SalePricePerPerson; price != 0 {
		data.SalePrice = strconv.FormatFloat(price, 'f', -1, 64)
	}
	data.Modal = s.DayModal()
	data.Gallery = s.Gallery()
	return data
}

// Reload retries a failed initialization or refreshes the days.
func (h *BuilderHandler) Reload(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		if s.State() == tripbuilder.StateUninitialized {
			return "", s.Init(ctx)
		}
		return "", s.LoadDays(ctx)
	})
}

// loadHotels fills the hotel dropdown; the modal stays usable without it.
func loadHotels(ctx context.Context, s *tripbuilder.Session) error {
	if err := s.LoadHotelOptions(ctx); err != nil {
		return apperrors.PartialFailure("La banque d'hôtels n'a pas pu être chargée", err)
	}
	return nil
}

func (h *BuilderHandler) NewDay(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		if err := s.NewDay(); err != nil {
			return "", err
		}
		return "", loadHotels(ctx, s)
	})
}

func (h *BuilderHandler) EditDay(c *gin.Context) {
	dayID := c.Param("dayId")
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		if err := s.OpenDay(dayID); err != nil {
			return "", err
		}
		return "", loadHotels(ctx, s)
	})
}

// ConfirmDeleteDay shows the deletion prompt without touching the day.
func (h *BuilderHandler) ConfirmDeleteDay(c *gin.Context) {
	tripID, dayID := c.Param("tripId"), c.Param("dayId")
	var prompt string
	err := h.workspace(c).Do(func(ws *console.Workspace) error {
		_, err := ws.Trip(tripID).DeleteDay(c.Request.Context(), dayID, func(message string) bool {
			prompt = message
			return false
		})
		return err
	})
	if err != nil {
		h.flash(c, err)
		h.redirect(c, builderURL(tripID))
		return
	}
	base := builderURL(tripID)
	h.renderConfirm(c, "Supprimer le jour", prompt, base+"/days/"+dayID+"/delete", base)
}

func (h *BuilderHandler) DeleteDay(c *gin.Context) {
	dayID := c.Param("dayId")
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		deleted, err := s.DeleteDay(ctx, dayID, confirmed(c))
		if deleted {
			return "Jour supprimé", err
		}
		return "", err
	})
}

// RetryGPX sends the track of a day whose earlier upload failed.
func (h *BuilderHandler) RetryGPX(c *gin.Context) {
	dayID := c.Param("dayId")
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		gpx, err := gpxUpload(c)
		if err != nil {
			return "", err
		}
		if gpx == nil {
			return "", apperrors.ValidationFailed("Choisissez un fichier GPX", "gpx")
		}
		return "Tracé GPX envoyé", s.RetryGPX(ctx, dayID, *gpx)
	})
}

var dayFormMessages = map[string]string{
	"DayName": "Le nom du jour est obligatoire",
	"Nights":  "Valeur invalide pour « Nuits »",
}

// dayForm binds the day modal inputs.
func dayForm(c *gin.Context) (tripbuilder.DayForm, error) {
	var form tripbuilder.DayForm
	if err := c.ShouldBind(&form); err != nil {
		return form, bindError(err, dayFormMessages)
	}
	return form, nil
}

// keepDraft stores what was typed before a partial modal action. Values
// that do not validate yet are left for the final save to report.
func keepDraft(c *gin.Context, s *tripbuilder.Session) error {
	form, err := dayForm(c)
	if err != nil {
		return nil
	}
	if err := s.UpdateDraft(form); err != nil && !apperrors.IsType(err, apperrors.ValidationError) {
		return err
	}
	return nil
}

func pathIndex(c *gin.Context) (int, error) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, apperrors.ValidationFailed("Position invalide", c.Param("index"))
	}
	return i, nil
}

// Draft keeps the typed values without any other change.
func (h *BuilderHandler) Draft(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		form, err := dayForm(c)
		if err != nil {
			return "", err
		}
		return "", s.UpdateDraft(form)
	})
}

func (h *BuilderHandler) AddPOI(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		if err := keepDraft(c, s); err != nil {
			return "", err
		}
		return "", s.AddPOI(c.PostForm("poi"))
	})
}

func (h *BuilderHandler) RemovePOI(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		if err := keepDraft(c, s); err != nil {
			return "", err
		}
		i, err := pathIndex(c)
		if err != nil {
			return "", err
		}
		return "", s.RemovePOI(i)
	})
}

func (h *BuilderHandler) AddRestaurant(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		if err := keepDraft(c, s); err != nil {
			return "", err
		}
		return "", s.AddRestaurant(c.PostForm("restaurant"))
	})
}

func (h *BuilderHandler) RemoveRestaurant(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		if err := keepDraft(c, s); err != nil {
			return "", err
		}
		i, err := pathIndex(c)
		if err != nil {
			return "", err
		}
		return "", s.RemoveRestaurant(i)
	})
}

// SelectHotel copies the chosen bank hotel into the draft.
func (h *BuilderHandler) SelectHotel(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		if err := keepDraft(c, s); err != nil {
			return "", err
		}
		return "", s.SelectHotel(c.PostForm("hotelId"))
	})
}

// HotelOptions reloads the hotel bank of the dropdown.
func (h *BuilderHandler) HotelOptions(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		if err := keepDraft(c, s); err != nil {
			return "", err
		}
		return "", s.LoadHotelOptions(ctx)
	})
}

// SaveDay saves the modal and its optional GPX file.
func (h *BuilderHandler) SaveDay(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		gpx, err := gpxUpload(c)
		if err != nil {
			return "", err
		}
		form, err := dayForm(c)
		if err != nil {
			return "", err
		}
		result, err := s.SaveDay(ctx, form, gpx)
		if err != nil {
			return "", err
		}
		if result.Created {
			return "Jour ajouté", nil
		}
		return "Jour mis à jour", nil
	})
}

func (h *BuilderHandler) CloseDay(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		return "", s.CloseDay()
	})
}

var simulationMessages = map[string]string{
	"NbDouble": "Valeur invalide pour « Chambres doubles »",
	"NbSolo":   "Valeur invalide pour « Chambres solo »",
}

// Simulate recomputes the pricing cards for an occupancy.
func (h *BuilderHandler) Simulate(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		var in tripbuilder.SimulationInput
		if err := c.ShouldBind(&in); err != nil {
			return "", bindError(err, simulationMessages)
		}
		_, err := s.Simulate(in)
		return "", err
	})
}

type salePriceForm struct {
	SalePricePerPerson string `form:"salePricePerPerson" binding:"required"`
}

// SalePrice stores the per-person sale price on the trip.
func (h *BuilderHandler) SalePrice(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		var form salePriceForm
		if err := c.ShouldBind(&form); err != nil {
			return "", bindError(err, map[string]string{"SalePricePerPerson": "Prix de vente invalide"})
		}
		price, err := valueobjects.NewMoneyFromString(form.SalePricePerPerson, string(valueobjects.EUR))
		if err != nil {
			return "", apperrors.ValidationFailed("Prix de vente invalide", form.SalePricePerPerson)
		}
		if _, err := s.SetSalePricePerPerson(price.Float()); err != nil {
			return "", err
		}
		return "Prix de vente enregistré", s.SaveSalePricePerPerson(ctx)
	})
}

// Gallery opens the photo gallery of a day on the requested tab.
func (h *BuilderHandler) Gallery(c *gin.Context) {
	dayID := c.Param("dayId")
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		return "", s.OpenGallery(ctx, dayID, tripbuilder.Tab(c.Query("tab")))
	})
}

func (h *BuilderHandler) GalleryNext(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		return "", s.NextPhoto()
	})
}

func (h *BuilderHandler) GalleryPrev(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		return "", s.PrevPhoto()
	})
}

func (h *BuilderHandler) GalleryTab(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		return "", s.SelectTab(tripbuilder.Tab(c.PostForm("tab")))
	})
}

func (h *BuilderHandler) GalleryClose(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		return "", s.CloseGallery()
	})
}

// Publish toggles the public page of the trip.
func (h *BuilderHandler) Publish(c *gin.Context) {
	h.run(c, func(ctx context.Context, s *tripbuilder.Session) (string, error) {
		published, err := s.TogglePublish(ctx)
		if err != nil {
			return "", err
		}
		if published {
			return "Voyage publié", nil
		}
		return "Voyage retiré de la publication", nil
	})
}

// Map returns the track overlay as JSON for the page script.
func (h *BuilderHandler) Map(c *gin.Context) {
	tripID := c.Param("tripId")
	var overlay *tripbuilder.Overlay
	err := h.workspace(c).Do(func(ws *console.Workspace) error {
		var err error
		overlay, err = ws.Trip(tripID).BuildOverlay(c.Request.Context())
		return err
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, overlay)
}

// gpxUpload returns the optional GPX file of a form, nil when none was sent.
func gpxUpload(c *gin.Context) (*adminapi.File, error) {
	fh, err := c.FormFile("gpx")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperrors.ValidationFailed("Formulaire d'envoi illisible", err.Error())
	}
	if fh.Size == 0 {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to open upload")
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to read upload")
	}
	return &adminapi.File{Field: "gpx", Filename: fh.Filename, Content: content}, nil
}
