// Package main provides the WhatsApp chatbot server entry point.
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atiendebot/atiendebot/internal/buildinfo"
	"github.com/atiendebot/atiendebot/internal/config"
	"github.com/atiendebot/atiendebot/internal/registry"
	"github.com/atiendebot/atiendebot/internal/webhook"
)

type routeDeps struct {
	webhook  *webhook.Handler
	register *webhook.RegisterHandler
	store    *registry.Store
	registry *prometheus.Registry
	config   *config.Config
}

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, deps routeDeps) {
	// Health check endpoints
	// Liveness probe - only checks that the process is serving requests
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": buildinfo.Version,
		})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness probe - checks the client registry dependency
	readyHandler := func(c *gin.Context) {
		if err := deps.store.Ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		clients, _ := deps.store.Count(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"database": "connected",
			"clients":  clients,
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// WhatsApp webhook callback endpoint
	router.POST("/webhook/whatsapp", deps.webhook.HandleWhatsApp)

	// Client registration and lookup endpoints
	router.POST("/api/clients", deps.register.HandleRegister)
	router.GET("/api/clients/:channel", deps.register.HandleGet)

	// Prometheus metrics endpoint, optionally behind Basic Auth
	metricsHandler := gin.WrapH(promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}))
	if deps.config.MetricsPassword != "" {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			deps.config.MetricsUsername: deps.config.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}
