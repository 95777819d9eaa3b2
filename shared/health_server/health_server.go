package health_server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	logger "github.com/reviewstats/partagg/shared/middleware"
)

type HealthServer struct {
	port string
	echo *echo.Echo
}

// NewHealthServer serves GET /health and GET /metrics from gatherer.
func NewHealthServer(port string, gatherer prometheus.Gatherer) *HealthServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return &HealthServer{port: port, echo: e}
}

// Handler exposes the router, mainly for tests.
func (hs *HealthServer) Handler() http.Handler {
	return hs.echo
}

// Start serves in the background.
func (hs *HealthServer) Start() {
	go func() {
		logger.LogInfo("HealthServer", "Listening on port %s", hs.port)
		if err := hs.echo.Start(":" + hs.port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError("HealthServer", "Server stopped: %v", err)
		}
	}()
}

func (hs *HealthServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := hs.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop health server: %w", err)
	}
	logger.LogInfo("HealthServer", "Stopped")
	return nil
}
