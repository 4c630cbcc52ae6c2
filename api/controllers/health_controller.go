/*
 * @module api/controllers/health_controller
 * @description Health and readiness endpoints for container probes
 * @architecture MVC architecture - controller layer
 * @stateFlow Stateless HTTP request handling
 * @rules Readiness verifies the database connection; liveness does not
 * @dependencies net/http, github.com/go-chi/render
 * @refs api/routes.go
 */

package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"gus-analytics-service/service"
)

// HealthController serves liveness and readiness probes.
type HealthController struct{}

// NewHealthController creates a health controller.
func NewHealthController() *HealthController {
	return &HealthController{}
}

// HealthResponse is the probe payload.
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp" example:"2026-01-01T00:00:00Z"`
	Version   string    `json:"version" example:"1.0.0"`
	Service   string    `json:"service" example:"gus-analytics-service"`
}

// Health liveness probe
// @Summary Liveness probe
// @Description Reports that the process is up
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Service:   "gus-analytics-service",
	})
}

// Ready readiness probe
// @Summary Readiness probe
// @Description Reports whether the database is reachable
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /ready [get]
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Service:   "gus-analytics-service",
	}

	sqlDB, err := service.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		response.Status = "unavailable"
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, response)
}
