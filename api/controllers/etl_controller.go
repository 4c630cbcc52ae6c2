/*
 * @module api/controllers/etl_controller
 * @description Import management endpoints: trigger runs, browse run history,
 *              inspect validation errors and quality reports
 * @architecture MVC architecture - controller layer
 * @stateFlow HTTP request -> pipeline/repository call -> uniform envelope
 * @rules Triggered runs execute synchronously; the response carries the full
 *        run outcome
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/etl/pipeline.go, service/models/import.go
 */

package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"gorm.io/gorm"

	"gus-analytics-service/service"
	"gus-analytics-service/service/models"
)

// EtlController manages import runs over HTTP.
type EtlController struct{}

// NewEtlController creates an ETL controller.
func NewEtlController() *EtlController {
	return &EtlController{}
}

// RunRequest selects what a triggered run should fetch.
type RunRequest struct {
	Years     []int `json:"years"`
	UnitLevel int   `json:"unit_level"`
}

// Bind applies request defaults.
func (req *RunRequest) Bind(r *http.Request) error {
	if req.UnitLevel == 0 {
		req.UnitLevel = 2
	}
	return nil
}

// TriggerRun runs the pipeline
// @Summary Trigger an import run
// @Description Fetches source data and runs the full ETL pipeline synchronously
// @Tags etl
// @Accept json
// @Produce json
// @Param request body RunRequest false "Run parameters"
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /etl/run [post]
func (c *EtlController) TriggerRun(w http.ResponseWriter, r *http.Request) {
	req := &RunRequest{}
	if r.ContentLength > 0 {
		if err := render.Bind(r, req); err != nil {
			render.JSON(w, r, BadRequestResponse("invalid run request", err))
			return
		}
	} else {
		req.UnitLevel = 2
	}

	outcome, err := service.GlobalPipeline.Run(r.Context(), req.Years, req.UnitLevel)
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("starting import run failed", err))
		return
	}
	if !outcome.Success {
		render.JSON(w, r, &APIResponse{Status: 500, Msg: "import run failed", Data: outcome})
		return
	}
	render.JSON(w, r, SuccessResponse("import run finished", outcome))
}

// ListRuns lists import runs
// @Summary List import runs
// @Description Returns import runs newest first
// @Tags etl
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} PaginatedResponse
// @Failure 500 {object} APIResponse
// @Router /etl/runs [get]
func (c *EtlController) ListRuns(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	size := queryInt(r, "size", 10)

	var total int64
	if err := service.DB.Model(&models.ImportRun{}).Count(&total).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("counting import runs failed", err))
		return
	}

	var runs []models.ImportRun
	err := service.DB.Order("started_at DESC").
		Offset((page - 1) * size).Limit(size).
		Find(&runs).Error
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("listing import runs failed", err))
		return
	}

	render.JSON(w, r, &PaginatedResponse{
		Status: 0, Msg: "ok", Data: runs,
		Total: total, Page: page, Size: size,
	})
}

// GetRun fetches one run
// @Summary Get one import run
// @Tags etl
// @Produce json
// @Param id path int true "Import run id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /etl/runs/{id} [get]
func (c *EtlController) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		render.JSON(w, r, BadRequestResponse("invalid run id", err))
		return
	}

	var run models.ImportRun
	if err := service.DB.First(&run, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			render.JSON(w, r, NotFoundResponse("import run not found"))
			return
		}
		render.JSON(w, r, InternalErrorResponse("loading import run failed", err))
		return
	}
	render.JSON(w, r, SuccessResponse("ok", run))
}

// GetRunErrors lists a run's validation errors
// @Summary List validation errors of one run
// @Tags etl
// @Produce json
// @Param id path int true "Import run id"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(50)
// @Success 200 {object} PaginatedResponse
// @Failure 500 {object} APIResponse
// @Router /etl/runs/{id}/errors [get]
func (c *EtlController) GetRunErrors(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		render.JSON(w, r, BadRequestResponse("invalid run id", err))
		return
	}
	page := queryInt(r, "page", 1)
	size := queryInt(r, "size", 50)

	var total int64
	if err := service.DB.Model(&models.ValidationError{}).
		Where("import_id = ?", id).Count(&total).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("counting validation errors failed", err))
		return
	}

	var errorsList []models.ValidationError
	err = service.DB.Where("import_id = ?", id).
		Order("id").
		Offset((page - 1) * size).Limit(size).
		Find(&errorsList).Error
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("listing validation errors failed", err))
		return
	}

	render.JSON(w, r, &PaginatedResponse{
		Status: 0, Msg: "ok", Data: errorsList,
		Total: total, Page: page, Size: size,
	})
}

// GetRunQualityReport fetches a run's quality report
// @Summary Get the data quality report of one run
// @Tags etl
// @Produce json
// @Param id path int true "Import run id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /etl/runs/{id}/quality-report [get]
func (c *EtlController) GetRunQualityReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		render.JSON(w, r, BadRequestResponse("invalid run id", err))
		return
	}

	var report models.DataQualityReport
	if err := service.DB.Where("import_id = ?", id).First(&report).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			render.JSON(w, r, NotFoundResponse("quality report not found"))
			return
		}
		render.JSON(w, r, InternalErrorResponse("loading quality report failed", err))
		return
	}
	render.JSON(w, r, SuccessResponse("ok", report))
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}
