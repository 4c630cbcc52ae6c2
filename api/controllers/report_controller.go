/*
 * @module api/controllers/report_controller
 * @description Report artifact endpoints: generate HTML/XLSX files on demand
 * @architecture MVC architecture - controller layer
 * @stateFlow HTTP request -> analysis -> artifact generation -> file paths
 * @rules Generation is synchronous; artifacts land in the output directory
 * @dependencies github.com/go-chi/render
 * @refs service/report/html.go, service/report/xlsx.go
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/render"

	"gus-analytics-service/service"
)

// ReportController generates report artifacts over HTTP.
type ReportController struct{}

// NewReportController creates a report controller.
func NewReportController() *ReportController {
	return &ReportController{}
}

// GeneratedReports lists the artifacts written by one generation request.
type GeneratedReports struct {
	HTMLPath string   `json:"html_path,omitempty"`
	XLSXPath string   `json:"xlsx_path,omitempty"`
	Insights []string `json:"insights"`
}

// Generate builds both artifacts
// @Summary Generate HTML and XLSX reports
// @Description Runs the full analysis and writes both report artifacts
// @Tags reports
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /reports/generate [post]
func (c *ReportController) Generate(w http.ResponseWriter, r *http.Request) {
	fullReport, err := service.GlobalAnalysisService.FullReport()
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("building analysis failed", err))
		return
	}

	result := GeneratedReports{Insights: fullReport.Insights}
	if result.HTMLPath, err = service.GlobalHTMLGenerator.Generate(fullReport); err != nil {
		render.JSON(w, r, InternalErrorResponse("generating html report failed", err))
		return
	}
	if result.XLSXPath, err = service.GlobalXLSXGenerator.Generate(fullReport); err != nil {
		render.JSON(w, r, InternalErrorResponse("generating xlsx report failed", err))
		return
	}
	render.JSON(w, r, SuccessResponse("reports generated", result))
}
