package stock

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/rasreserve/autoshop-api/internal/model"
	"github.com/rasreserve/autoshop-api/internal/service/stock"
	apperrors "github.com/rasreserve/autoshop-api/pkg/errors"
	"github.com/rasreserve/autoshop-api/pkg/httputil"
)

const (
	analyticsCacheKey = "stocks:analytics"
	forecastCacheKey  = "stocks:forecast"
	cacheTTL          = 30 * time.Second
)

type Handler struct {
	service *stock.Service
	// Analytics and forecast are eventually-consistent reads; a short cache
	// keeps dashboard polling off the history table.
	cache *gocache.Cache
}

func NewHandler(service *stock.Service) *Handler {
	return &Handler{
		service: service,
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, staffOnly gin.HandlerFunc) {
	stocks := r.Group("/stocks", staffOnly)
	{
		stocks.GET("", h.ListStocks)
		stocks.POST("", h.CreateStock)
		stocks.GET("/analytics", h.GetAnalytics)
		stocks.GET("/history", h.GetHistory)
		stocks.GET("/forecast", h.GetForecast)
		stocks.GET("/:id", h.GetStock)
		stocks.PATCH("/:id", h.UpdateStock)
		stocks.DELETE("/:id", h.DeleteStock)
		stocks.POST("/:id/change", h.RecordChange)
	}
}

func (h *Handler) invalidate() {
	h.cache.Delete(analyticsCacheKey)
	h.cache.Delete(forecastCacheKey)
}

func (h *Handler) CreateStock(c *gin.Context) {
	var req model.CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	item, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.invalidate()
	httputil.RespondWithSuccess(c, http.StatusCreated, item)
}

func (h *Handler) GetStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid stock ID", err))
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, item)
}

func (h *Handler) ListStocks(c *gin.Context) {
	filters := &model.StockFilters{Type: c.Query("type")}
	if category := c.Query("category"); category != "" {
		filters.Category = model.StockCategory(category)
		if !filters.Category.IsValid() {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid stock category", nil))
			return
		}
	}

	var page model.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid pagination", err))
		return
	}
	page.Normalize(100, 500)

	items, total, err := h.service.List(c.Request.Context(), filters, page)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithPagination(c, items, page.Page, page.PageSize, total)
}

func (h *Handler) UpdateStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid stock ID", err))
		return
	}

	var req model.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	item, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.invalidate()
	httputil.RespondWithSuccess(c, http.StatusOK, item)
}

func (h *Handler) DeleteStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid stock ID", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.invalidate()
	httputil.RespondWithSuccess(c, http.StatusNoContent, nil)
}

func (h *Handler) RecordChange(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid stock ID", err))
		return
	}

	var req model.RecordStockChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	item, err := h.service.RecordChange(c.Request.Context(), id, req.Change, req.Operation)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.invalidate()
	httputil.RespondWithSuccess(c, http.StatusOK, item)
}

func (h *Handler) GetAnalytics(c *gin.Context) {
	if cached, ok := h.cache.Get(analyticsCacheKey); ok {
		httputil.RespondWithSuccess(c, http.StatusOK, cached)
		return
	}

	analytics, err := h.service.Analytics(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.cache.SetDefault(analyticsCacheKey, analytics)
	httputil.RespondWithSuccess(c, http.StatusOK, analytics)
}

func (h *Handler) GetHistory(c *gin.Context) {
	timeframe := model.Timeframe(c.DefaultQuery("timeframe", string(model.TimeframeMonth)))
	if !timeframe.IsValid() {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid timeframe", nil))
		return
	}

	history, err := h.service.History(c.Request.Context(), timeframe)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, history)
}

func (h *Handler) GetForecast(c *gin.Context) {
	if cached, ok := h.cache.Get(forecastCacheKey); ok {
		httputil.RespondWithSuccess(c, http.StatusOK, cached)
		return
	}

	forecast, err := h.service.Forecast(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.cache.SetDefault(forecastCacheKey, forecast)
	httputil.RespondWithSuccess(c, http.StatusOK, forecast)
}
