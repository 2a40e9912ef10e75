package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wonder-electronics/internal/middleware"
	"wonder-electronics/internal/service"
)

// SlideRequest represents the add-slide payload
type SlideRequest struct {
	Image       string `json:"image" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

// SiteHandler handles HTTP requests for site settings and the homepage
// slideshow
type SiteHandler struct {
	site   service.SiteService
	logger *zap.Logger
}

// NewSiteHandler creates a new SiteHandler
func NewSiteHandler(site service.SiteService, logger *zap.Logger) *SiteHandler {
	return &SiteHandler{site: site, logger: logger}
}

// RegisterRoutes registers site routes
func (h *SiteHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/settings", func(r chi.Router) {
		r.Get("/", h.GetSettings)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Put("/general", h.UpdateGeneral)
			r.Put("/social", h.UpdateSocial)
			r.Put("/hero", h.UpdateHero)
			r.Put("/about", h.UpdateAbout)
			r.Put("/contact", h.UpdateContact)
			r.Put("/payment", h.UpdatePayment)
		})
	})

	r.Route("/api/slides", func(r chi.Router) {
		r.Get("/", h.ListSlides)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Post("/", h.AddSlide)
			r.Delete("/{id}", h.DeleteSlide)
		})
	})
}

// GetSettings returns the site configuration
func (h *SiteHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.site.Settings(r.Context())
	if err != nil {
		h.logger.Error("Failed to load settings", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, settings)
}

func decodeSectionUpdate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *SiteHandler) respondUpdated(w http.ResponseWriter, settings interface{}, err error, section string) {
	if err != nil {
		h.logger.Error("Failed to update settings", zap.String("section", section), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, settings)
}

// UpdateGeneral updates the general settings tab
func (h *SiteHandler) UpdateGeneral(w http.ResponseWriter, r *http.Request) {
	var req service.GeneralSettingsUpdate
	if !decodeSectionUpdate(w, r, &req) {
		return
	}
	settings, err := h.site.UpdateGeneral(r.Context(), req)
	h.respondUpdated(w, settings, err, "general")
}

// UpdateSocial updates social media handles
func (h *SiteHandler) UpdateSocial(w http.ResponseWriter, r *http.Request) {
	var req service.SocialSettingsUpdate
	if !decodeSectionUpdate(w, r, &req) {
		return
	}
	settings, err := h.site.UpdateSocial(r.Context(), req)
	h.respondUpdated(w, settings, err, "social")
}

// UpdateHero updates the homepage hero section
func (h *SiteHandler) UpdateHero(w http.ResponseWriter, r *http.Request) {
	var req service.HeroSettingsUpdate
	if !decodeSectionUpdate(w, r, &req) {
		return
	}
	settings, err := h.site.UpdateHero(r.Context(), req)
	h.respondUpdated(w, settings, err, "hero")
}

// UpdateAbout updates the about section
func (h *SiteHandler) UpdateAbout(w http.ResponseWriter, r *http.Request) {
	var req service.AboutSettingsUpdate
	if !decodeSectionUpdate(w, r, &req) {
		return
	}
	settings, err := h.site.UpdateAbout(r.Context(), req)
	h.respondUpdated(w, settings, err, "about")
}

// UpdateContact updates contact details
func (h *SiteHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var req service.ContactSettingsUpdate
	if !decodeSectionUpdate(w, r, &req) {
		return
	}
	settings, err := h.site.UpdateContact(r.Context(), req)
	h.respondUpdated(w, settings, err, "contact")
}

// UpdatePayment updates mobile money payment details
func (h *SiteHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req service.PaymentSettingsUpdate
	if !decodeSectionUpdate(w, r, &req) {
		return
	}
	settings, err := h.site.UpdatePayment(r.Context(), req)
	h.respondUpdated(w, settings, err, "payment")
}

// ListSlides returns the homepage slideshow
func (h *SiteHandler) ListSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := h.site.ListSlides(r.Context())
	if err != nil {
		h.logger.Error("Failed to list slides", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list slides")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, slides)
}

// AddSlide appends a slide to the slideshow
func (h *SiteHandler) AddSlide(w http.ResponseWriter, r *http.Request) {
	var req SlideRequest
	if !decodeSectionUpdate(w, r, &req) {
		return
	}

	slide, err := h.site.AddSlide(r.Context(), req.Image, req.Title, req.Description)
	if err != nil {
		h.logger.Error("Failed to add slide", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add slide")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, slide)
}

// DeleteSlide removes a slide
func (h *SiteHandler) DeleteSlide(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid slide ID")
		return
	}

	if err := h.site.DeleteSlide(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete slide", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete slide")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "slide deleted"})
}
