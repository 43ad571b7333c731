package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rasreserve/autoshop-api/internal/service/catalog"
	apperrors "github.com/rasreserve/autoshop-api/pkg/errors"
	"github.com/rasreserve/autoshop-api/pkg/httputil"
)

type Handler struct {
	service *catalog.Service
}

func NewHandler(service *catalog.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the catalog read endpoints. The catalog is public so
// customers can browse services before booking.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/service-categories", h.ListCategories)
	r.GET("/service-categories/:id/services", h.ListServices)
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, categories)
}

func (h *Handler) ListServices(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid category ID", err))
		return
	}

	services, err := h.service.ListServices(c.Request.Context(), categoryID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, services)
}
