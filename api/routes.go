/*
 * @module api/routes
 * @description API route configuration: middleware stack and endpoint wiring
 * @architecture RESTful API architecture
 * @stateFlow Stateless HTTP request handling
 * @rules RESTful conventions, uniform error handling and response envelopes
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers
 */

package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"gus-analytics-service/api/controllers"
)

// InitRoute mounts every API endpoint on the router.
func InitRoute(r *chi.Mux) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	r.Route("/etl", func(r chi.Router) {
		etlController := controllers.NewEtlController()
		r.Post("/run", etlController.TriggerRun)
		r.Get("/runs", etlController.ListRuns)
		r.Get("/runs/{id}", etlController.GetRun)
		r.Get("/runs/{id}/errors", etlController.GetRunErrors)
		r.Get("/runs/{id}/quality-report", etlController.GetRunQualityReport)
	})

	r.Route("/analysis", func(r chi.Router) {
		analysisController := controllers.NewAnalysisController()
		r.Get("/summary", analysisController.Summary)
		r.Get("/trends", analysisController.Trends)
		r.Get("/regions", analysisController.Ranking)
		r.Get("/structure", analysisController.Structure)
		r.Get("/dynamics", analysisController.Dynamics)
		r.Get("/anomalies", analysisController.Anomalies)
		r.Get("/report", analysisController.FullReport)
	})

	r.Route("/reports", func(r chi.Router) {
		reportController := controllers.NewReportController()
		r.Post("/generate", reportController.Generate)
	})
}
