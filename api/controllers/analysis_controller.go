/*
 * @module api/controllers/analysis_controller
 * @description Warehouse analysis endpoints: summary, trends, rankings,
 *              structure, dynamics, anomalies
 * @architecture MVC architecture - controller layer
 * @stateFlow HTTP request -> analysis service query -> uniform envelope
 * @rules Endpoints are read-only; an empty warehouse is a valid result
 * @dependencies github.com/go-chi/render
 * @refs service/analysis/analyzer.go
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/render"

	"gus-analytics-service/service"
)

// AnalysisController serves warehouse analyses.
type AnalysisController struct{}

// NewAnalysisController creates an analysis controller.
func NewAnalysisController() *AnalysisController {
	return &AnalysisController{}
}

// Summary overall statistics
// @Summary Warehouse summary statistics
// @Tags analysis
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /analysis/summary [get]
func (c *AnalysisController) Summary(w http.ResponseWriter, r *http.Request) {
	stats, err := service.GlobalAnalysisService.Summary()
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("computing summary failed", err))
		return
	}
	render.JSON(w, r, SuccessResponse("ok", stats))
}

// Trends yearly aggregates
// @Summary Yearly cost trends
// @Tags analysis
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /analysis/trends [get]
func (c *AnalysisController) Trends(w http.ResponseWriter, r *http.Request) {
	trends, err := service.GlobalAnalysisService.YearlyTrends()
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("computing trends failed", err))
		return
	}
	render.JSON(w, r, SuccessResponse("ok", trends))
}

// Ranking regional ranking
// @Summary Region ranking for the latest year
// @Tags analysis
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /analysis/regions [get]
func (c *AnalysisController) Ranking(w http.ResponseWriter, r *http.Request) {
	ranking, err := service.GlobalAnalysisService.RegionRanking()
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("computing ranking failed", err))
		return
	}
	render.JSON(w, r, SuccessResponse("ok", ranking))
}

// Structure category shares
// @Summary Ownership category cost structure
// @Tags analysis
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /analysis/structure [get]
func (c *AnalysisController) Structure(w http.ResponseWriter, r *http.Request) {
	structure, err := service.GlobalAnalysisService.CostStructure()
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("computing structure failed", err))
		return
	}
	render.JSON(w, r, SuccessResponse("ok", structure))
}

// Dynamics year-over-year changes
// @Summary Year-over-year cost dynamics
// @Tags analysis
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /analysis/dynamics [get]
func (c *AnalysisController) Dynamics(w http.ResponseWriter, r *http.Request) {
	dynamics, err := service.GlobalAnalysisService.Dynamics()
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("computing dynamics failed", err))
		return
	}
	render.JSON(w, r, SuccessResponse("ok", dynamics))
}

// Anomalies flagged units
// @Summary Anomalous units
// @Tags analysis
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /analysis/anomalies [get]
func (c *AnalysisController) Anomalies(w http.ResponseWriter, r *http.Request) {
	anomalies, err := service.GlobalAnalysisService.Anomalies()
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("detecting anomalies failed", err))
		return
	}
	render.JSON(w, r, SuccessResponse("ok", anomalies))
}

// FullReport complete analysis
// @Summary Full analysis report with insights
// @Tags analysis
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /analysis/report [get]
func (c *AnalysisController) FullReport(w http.ResponseWriter, r *http.Request) {
	fullReport, err := service.GlobalAnalysisService.FullReport()
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("building full report failed", err))
		return
	}
	render.JSON(w, r, SuccessResponse("ok", fullReport))
}
