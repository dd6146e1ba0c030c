package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/internal/catalog"
	"github.com/OldiBike/mototrip-planner-sub000/internal/console"
	"github.com/OldiBike/mototrip-planner-sub000/internal/notify"
	"github.com/OldiBike/mototrip-planner-sub000/internal/progress"
	"github.com/OldiBike/mototrip-planner-sub000/logger"
	"github.com/OldiBike/mototrip-planner-sub000/middleware"
	"github.com/OldiBike/mototrip-planner-sub000/services"
	"github.com/gin-gonic/gin"
)

// JobSubmitter queues background work; *services.WorkerPool implements it.
type JobSubmitter interface {
	Submit(job services.Job) bool
}

// CatalogHandler serves the six entity lists.
type CatalogHandler struct {
	pages
	uploads *progress.Registry
	jobs    JobSubmitter
}

func NewCatalogHandler(registry *console.Registry, toasts *notify.Service, uploads *progress.Registry, jobs JobSubmitter) *CatalogHandler {
	return &CatalogHandler{
		pages:   pages{registry: registry, toasts: toasts},
		uploads: uploads,
		jobs:    jobs,
	}
}

type listPage struct {
	Layout
	View        catalog.View
	Modal       catalog.ModalView
	Photos      bool
	Reveal      bool
	LoadFailed  bool
	UploadToken string
}

func controller(ws *console.Workspace, resource string) (catalog.Controller, error) {
	ctrl, ok := ws.Catalog().Get(resource)
	if !ok {
		return nil, apperrors.NotFound("Liste", resource)
	}
	return ctrl, nil
}

func listURL(resource string) string {
	return "/catalog/" + resource
}

func itemURL(resource, id, action string) string {
	return fmt.Sprintf("/catalog/%s/items/%s/%s", resource, id, action)
}

// List renders a list with its filters. The collection is fetched on first
// visit and again when refresh=1.
func (h *CatalogHandler) List(c *gin.Context) {
	resource := c.Param("resource")
	ctx := c.Request.Context()

	var (
		data    listPage
		loadErr error
		title   string
	)
	err := h.workspace(c).Do(func(ws *console.Workspace) error {
		ctrl, err := controller(ws, resource)
		if err != nil {
			return err
		}
		if !ctrl.Loaded() || c.Query("refresh") == "1" {
			loadErr = ctrl.Load(ctx)
		}
		data.View = ctrl.View(catalog.FilterFromValues(c.Request.URL.Query(), ctrl.FacetKeys()))
		data.Modal = ctrl.Modal()
		_, data.Photos = ctrl.(catalog.PhotoUploader)
		data.Reveal = resource == "bookings"
		data.LoadFailed = loadErr != nil && !ctrl.Loaded()
		title = ctrl.Title()
		return nil
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.flash(c, loadErr)
	data.UploadToken = c.Query("upload")
	data.Layout = h.layout(c, title, resource)
	c.HTML(http.StatusOK, "list.html", data)
}

// New opens the modal blank.
func (h *CatalogHandler) New(c *gin.Context) {
	h.openModal(c, "")
}

// Edit opens the modal prefilled with one record.
func (h *CatalogHandler) Edit(c *gin.Context) {
	h.openModal(c, c.Param("id"))
}

func (h *CatalogHandler) openModal(c *gin.Context, id string) {
	resource := c.Param("resource")
	err := h.workspace(c).Do(func(ws *console.Workspace) error {
		ctrl, err := controller(ws, resource)
		if err != nil {
			return err
		}
		return ctrl.OpenModal(id)
	})
	h.flash(c, err)
	h.redirect(c, listURL(resource))
}

// Close discards the modal draft.
func (h *CatalogHandler) Close(c *gin.Context) {
	resource := c.Param("resource")
	err := h.workspace(c).Do(func(ws *console.Workspace) error {
		ctrl, err := controller(ws, resource)
		if err != nil {
			return err
		}
		ctrl.CloseModal()
		return nil
	})
	h.flash(c, err)
	h.redirect(c, listURL(resource))
}

// Submit saves the modal form. The hidden id field picks create or update;
// a rejected form keeps the modal open with what was typed.
func (h *CatalogHandler) Submit(c *gin.Context) {
	resource := c.Param("resource")
	if err := c.Request.ParseForm(); err != nil {
		h.flash(c, apperrors.ValidationFailed("Formulaire illisible", err.Error()))
		h.redirect(c, listURL(resource))
		return
	}
	form := catalog.FormFromValues(c.Request.PostForm)

	err := h.workspace(c).Do(func(ws *console.Workspace) error {
		ctrl, err := controller(ws, resource)
		if err != nil {
			return err
		}
		return ctrl.Submit(c.Request.Context(), form)
	})
	if err == nil {
		h.success(c, "Enregistré")
	}
	h.flash(c, err)
	h.redirect(c, listURL(resource))
}

// ConfirmDelete shows the cascade warning of a record.
func (h *CatalogHandler) ConfirmDelete(c *gin.Context) {
	resource, id := c.Param("resource"), c.Param("id")
	var warning string
	err := h.workspace(c).Do(func(ws *console.Workspace) error {
		ctrl, err := controller(ws, resource)
		if err != nil {
			return err
		}
		warning, err = ctrl.DeleteWarning(id)
		return err
	})
	if err != nil {
		h.flash(c, err)
		h.redirect(c, listURL(resource))
		return
	}
	h.renderConfirm(c, "Confirmer la suppression", warning, itemURL(resource, id, "delete"), listURL(resource))
}

// Delete removes a record once the confirmation form was submitted.
func (h *CatalogHandler) Delete(c *gin.Context) {
	resource, id := c.Param("resource"), c.Param("id")
	var deleted bool
	err := h.workspace(c).Do(func(ws *console.Workspace) error {
		ctrl, err := controller(ws, resource)
		if err != nil {
			return err
		}
		deleted, err = ctrl.Delete(c.Request.Context(), id, confirmed(c))
		return err
	})
	if deleted {
		h.success(c, "Supprimé")
	}
	h.flash(c, err)
	h.redirect(c, listURL(resource))
}

// Reveal flips the roadbook visibility of one booking.
func (h *CatalogHandler) Reveal(c *gin.Context) {
	resource, id := c.Param("resource"), c.Param("id")
	var revealed bool
	err := h.workspace(c).Do(func(ws *console.Workspace) error {
		if resource != "bookings" {
			return apperrors.NotFound("Liste", resource)
		}
		var err error
		revealed, err = ws.Catalog().Bookings.ToggleReveal(c.Request.Context(), id)
		return err
	})
	if err == nil {
		if revealed {
			h.success(c, "Roadbook révélé")
		} else {
			h.success(c, "Roadbook masqué")
		}
	}
	h.flash(c, err)
	h.redirect(c, listURL(resource))
}

const busyMessage = "Trop d'envois en cours, réessayez dans un instant"

// UploadPhotos reads the submitted images and sends them in the background.
// The page polls the returned token for the cosmetic progress bar; the
// outcome arrives as a toast.
func (h *CatalogHandler) UploadPhotos(c *gin.Context) {
	resource, id := c.Param("resource"), c.Param("id")
	log := logger.GetLogger()

	files, err := readFiles(c, "photos")
	if err == nil && len(files) == 0 {
		err = apperrors.ValidationFailed("Aucune photo sélectionnée", "")
	}
	if err == nil {
		for _, f := range files {
			if !adminapi.IsImage(f.Content) {
				err = apperrors.ValidationFailed("Le fichier « "+f.Filename+" » n'est pas une image", f.ContentType())
				break
			}
		}
	}
	if err != nil {
		h.flash(c, err)
		h.redirect(c, listURL(resource))
		return
	}

	ws := h.workspace(c)
	err = ws.Do(func(ws *console.Workspace) error {
		ctrl, err := controller(ws, resource)
		if err != nil {
			return err
		}
		if _, ok := ctrl.(catalog.PhotoUploader); !ok {
			return apperrors.ValidationFailed("Cette liste n'accepte pas de photos", resource)
		}
		return nil
	})
	if err != nil {
		h.flash(c, err)
		h.redirect(c, listURL(resource))
		return
	}

	token, tracker := h.uploads.Start()
	sessionID := middleware.SessionID(c)

	queued := h.jobs.Submit(services.Job{
		Name: resource + "/" + id,
		Execute: func(ctx context.Context) error {
			// Toasts must land even when the upload ran out of time.
			notifyCtx := context.WithoutCancel(ctx)
			var count int
			err := ws.Do(func(ws *console.Workspace) error {
				ctrl, err := controller(ws, resource)
				if err != nil {
					return err
				}
				count, err = ctrl.(catalog.PhotoUploader).UploadPhotos(ctx, id, files)
				return err
			})
			if err != nil && !apperrors.IsType(err, apperrors.PartialFailureError) {
				h.toasts.Error(notifyCtx, sessionID, apperrors.UserMessage(err))
				tracker.Fail(apperrors.UserMessage(err))
				return err
			}
			message := fmt.Sprintf("%d photo(s) ajoutée(s)", count)
			h.toasts.Success(notifyCtx, sessionID, message)
			if err != nil {
				h.toasts.Warning(notifyCtx, sessionID, apperrors.UserMessage(err))
			}
			tracker.Done(message)
			return nil
		},
	})
	if !queued {
		log.Warnw("Photo upload refused", "resource", resource, "id", id)
		tracker.Fail(busyMessage)
		h.flash(c, apperrors.New(apperrors.RateLimitError, busyMessage, "upload queue full"))
		h.redirect(c, listURL(resource))
		return
	}

	h.redirect(c, listURL(resource)+"?upload="+token)
}

// UploadStatus is polled by the progress bar.
func (h *CatalogHandler) UploadStatus(c *gin.Context) {
	snap, ok := h.uploads.Get(c.Param("token"))
	if !ok {
		_ = c.Error(apperrors.NotFound("Envoi", c.Param("token")))
		return
	}
	c.JSON(http.StatusOK, snap)
}

// readFiles loads every file of a multipart field in memory.
func readFiles(c *gin.Context, field string) ([]adminapi.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperrors.ValidationFailed("Formulaire d'envoi illisible", err.Error())
	}
	headers := form.File[field]
	files := make([]adminapi.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to open upload")
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to read upload")
		}
		files = append(files, adminapi.File{Field: field, Filename: fh.Filename, Content: content})
	}
	return files, nil
}
