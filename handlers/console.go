package handlers

import (
	"errors"
	"net/http"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/internal/catalog"
	"github.com/OldiBike/mototrip-planner-sub000/internal/console"
	"github.com/OldiBike/mototrip-planner-sub000/internal/notify"
	"github.com/OldiBike/mototrip-planner-sub000/logger"
	"github.com/OldiBike/mototrip-planner-sub000/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var menuLabels = map[string]string{
	"customers":   "Clients",
	"bookings":    "Réservations",
	"hotels":      "Hôtels",
	"partners":    "Partenaires",
	"pois":        "Points d'intérêt",
	"restaurants": "Restaurants",
}

// NavItem is one entry of the top menu.
type NavItem struct {
	URL    string
	Label  string
	Active bool
}

// Layout is embedded by every page model.
type Layout struct {
	Title  string
	Nav    []NavItem
	Toasts []notify.Toast
}

type errorPage struct {
	Layout
	Message string
}

type confirmPage struct {
	Layout
	Message string
	Action  string
	Cancel  string
}

// pages holds what every console handler shares: the workspace registry
// and the toast queue.
type pages struct {
	registry *console.Registry
	toasts   *notify.Service
}

func (p *pages) workspace(c *gin.Context) *console.Workspace {
	return p.registry.Get(middleware.SessionID(c))
}

// flash turns an action error into a toast. Partial failures are warnings:
// the main change was committed.
func (p *pages) flash(c *gin.Context, err error) {
	if err == nil {
		return
	}
	sessionID := middleware.SessionID(c)
	if apperrors.IsType(err, apperrors.PartialFailureError) {
		logger.GetLogger().Warnw("Action partially failed", "path", c.FullPath(), "error", err)
		p.toasts.Warning(c.Request.Context(), sessionID, apperrors.UserMessage(err))
		return
	}
	logger.GetLogger().Infow("Action failed", "path", c.FullPath(), "error", err)
	p.toasts.Error(c.Request.Context(), sessionID, apperrors.UserMessage(err))
}

func (p *pages) success(c *gin.Context, message string) {
	p.toasts.Success(c.Request.Context(), middleware.SessionID(c), message)
}

// layout drains the pending toasts; call it last before rendering.
func (p *pages) layout(c *gin.Context, title, active string) Layout {
	nav := make([]NavItem, 0, len(menuLabels))
	for _, resource := range catalog.Resources() {
		nav = append(nav, NavItem{
			URL:    "/catalog/" + resource,
			Label:  menuLabels[resource],
			Active: resource == active,
		})
	}
	return Layout{
		Title:  title,
		Nav:    nav,
		Toasts: p.toasts.Drain(c.Request.Context(), middleware.SessionID(c)),
	}
}

// bindError turns a gin binding failure into a validation error. messages
// maps a struct field to the text shown when that field is rejected.
func bindError(err error, messages map[string]string) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := fieldErrs[0].Field()
		if msg, ok := messages[field]; ok {
			return apperrors.ValidationFailed(msg, field)
		}
		return apperrors.ValidationFailed("Valeur invalide pour « "+field+" »", fieldErrs[0].Tag())
	}
	return apperrors.ValidationFailed("Requête invalide", err.Error())
}

func (p *pages) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

func (p *pages) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status = appErr.GetHTTPStatus()
	}
	c.HTML(status, "error.html", errorPage{
		Layout:  p.layout(c, "Erreur", ""),
		Message: apperrors.UserMessage(err),
	})
}

func (p *pages) renderConfirm(c *gin.Context, title, message, action, cancel string) {
	c.HTML(http.StatusOK, "confirm.html", confirmPage{
		Layout:  p.layout(c, title, ""),
		Message: message,
		Action:  action,
		Cancel:  cancel,
	})
}

// confirmed answers a deletion prompt from the submitted confirmation form.
func confirmed(c *gin.Context) catalog.Confirmer {
	return func(string) bool {
		return c.PostForm("confirm") == "yes"
	}
}

// Home sends the operator to the first list.
func Home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/catalog/"+catalog.Resources()[0])
}
