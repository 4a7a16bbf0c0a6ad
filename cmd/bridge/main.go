package main

import (
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/embedkit/webbridge/internal/bridge"
	"github.com/embedkit/webbridge/internal/infrastructure/config"
	"github.com/embedkit/webbridge/internal/infrastructure/logging"
	"github.com/embedkit/webbridge/internal/infrastructure/monitoring"
	"github.com/embedkit/webbridge/internal/pipeline"
)

func main() {
	cfg := config.LoadOrDefault()

	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}
	defer logger.Sync()

	logger.Info("Initializing webbridge demo host",
		zap.String("port", cfg.Server.Port),
		zap.String("host_placeholder", cfg.Bridge.HostPlaceholder),
	)

	metrics := monitoring.NewMetrics()
	router := newRouter(cfg)

	// The gin router is the in-process pipeline; no socket sits between
	// the bridge and it.
	br := bridge.New(
		pipeline.NewHandler(router),
		logger,
		metrics,
		bridge.Options{
			HostPlaceholder: cfg.Bridge.HostPlaceholder,
			Scheme:          cfg.Bridge.Scheme,
		},
	)

	// The same router is additionally served over TCP so /metrics can
	// be scraped while the demo runs.
	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	drive(br, logger, demoRequests())

	logger.Info("Demo requests complete, serving metrics until interrupted")
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down")
	srv.Close()
}

func newRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.GET("/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Query("id"), "name": "demo user"})
	})
	router.GET("/page", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8",
			[]byte("<html><body><h1>webbridge</h1></body></html>"))
	})
	router.GET("/redirect/relative", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/users?id=5")
	})
	router.GET("/redirect/absolute", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, "http://example.com/next")
	})
	router.POST("/echo", func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.String(http.StatusBadRequest, "read body: %v", err)
			return
		}
		c.Data(http.StatusOK, "application/octet-stream", body)
	})

	if cfg.Server.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return router
}
