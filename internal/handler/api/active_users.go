package api

import (
	"errors"
	"net/http"
	"time"

	"BrandPulse/internal/domain/models"
	"BrandPulse/internal/usecase"
	xhttp "BrandPulse/pkg/http"
	xlogger "BrandPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ActiveUsersHandler serves the dashboard-facing active users endpoints.
// Response bodies are the exact shapes dashboard clients consume, without
// the generic envelope used for error payloads.
type ActiveUsersHandler struct {
	logger *xlogger.Logger
	agg    *usecase.Aggregator
}

func NewActiveUsersHandler(logger *xlogger.Logger, agg *usecase.Aggregator) *ActiveUsersHandler {
	return &ActiveUsersHandler{logger: logger, agg: agg}
}

func (h *ActiveUsersHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/all/active", h.AllActive)
	g.GET("/active-now/:brand", h.ActiveNow)
	e.GET("/healthz", h.Healthz)
}

// AllActive returns every brand's stats across all horizons. ?cache=false
// bypasses both the brand config cache and the metric cache.
func (h *ActiveUsersHandler) AllActive(c echo.Context) error {
	bypass := c.QueryParam("cache") == "false"

	data, err := h.agg.Snapshot(c.Request().Context(), bypass)
	if err != nil {
		h.logger.Error("snapshot usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=30")
	return c.JSON(http.StatusOK, models.AllActiveResponse{Data: data})
}

// ActiveNow returns one brand's realtime count. intervalms chooses the
// refresh interval; values below the configured floor are clamped.
func (h *ActiveUsersHandler) ActiveNow(c echo.Context) error {
	req := &models.ActiveNowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	brand := c.Param("brand")
	interval := time.Duration(req.IntervalMS) * time.Millisecond

	value, cached, err := h.agg.ActiveNow(c.Request().Context(), brand, interval)
	if err != nil {
		h.logger.Error("active-now usecase error",
			xlogger.String("brand", brand), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	return c.JSON(http.StatusOK, models.ActiveNowResponse{ActiveUsers: value, Cached: cached})
}

func (h *ActiveUsersHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ActiveUsersHandler) mapError(err error) error {
	var fe *models.FetchError
	switch {
	case errors.Is(err, models.ErrUnknownBrand):
		return xhttp.NotFoundError("unknown brand").WithError(err)
	case errors.Is(err, models.ErrConfigUnavailable):
		return xhttp.ServiceUnavailableError("brand configuration unavailable").WithError(err)
	case errors.As(err, &fe):
		return xhttp.BadGatewayError("upstream analytics error").WithError(err)
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}
