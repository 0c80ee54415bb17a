package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/archstudio/engine/internal/api/handlers"
	mw "github.com/archstudio/engine/internal/api/middleware"
)

type Dependencies struct {
	HMACSecret        []byte
	ProjectsHandler   *handlers.ProjectsHandler
	FlowsHandler      *handlers.FlowsHandler
	DataModelsHandler *handlers.DataModelsHandler
	ComponentsHandler *handlers.ComponentsHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(10, 20))
	r.Use(chimid.Compress(5))

	// Health endpoints
	hh := handlers.NewHealthHandler()
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	r.Route("/api/v1", func(api chi.Router) {
		api.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.HMACSecret))

			protected.Route("/projects", func(pr chi.Router) {
				pr.Get("/", dep.ProjectsHandler.List)
				pr.Post("/", dep.ProjectsHandler.Create)

				pr.Route("/{projectID}", func(project chi.Router) {
					project.Get("/", dep.ProjectsHandler.Get)
					project.Put("/", dep.ProjectsHandler.Update)
					project.Delete("/", dep.ProjectsHandler.Delete)

					project.Route("/systems", func(sr chi.Router) {
						sr.Get("/", dep.ProjectsHandler.ListSystems)
						sr.Post("/", dep.ProjectsHandler.CreateSystem)
						sr.Put("/{systemID}", dep.ProjectsHandler.UpdateSystem)
						sr.Delete("/{systemID}", dep.ProjectsHandler.DeleteSystem)
					})

					project.Route("/flows", func(fr chi.Router) {
						fr.Get("/", dep.FlowsHandler.List)
						fr.Post("/", dep.FlowsHandler.Create)
						fr.Post("/validate", dep.FlowsHandler.Validate)
						fr.Get("/{flowID}", dep.FlowsHandler.Get)
						fr.Put("/{flowID}", dep.FlowsHandler.Update)
						fr.Delete("/{flowID}", dep.FlowsHandler.Delete)
					})

					project.Route("/data-models", func(dr chi.Router) {
						dr.Get("/", dep.DataModelsHandler.List)
						dr.Post("/", dep.DataModelsHandler.Create)
						dr.Get("/{dataModelID}", dep.DataModelsHandler.Get)
						dr.Put("/{dataModelID}", dep.DataModelsHandler.Update)
						dr.Delete("/{dataModelID}", dep.DataModelsHandler.Delete)

						dr.Post("/{dataModelID}/attributes", dep.DataModelsHandler.AddAttribute)
						dr.Put("/{dataModelID}/attributes/{localID}", dep.DataModelsHandler.UpdateAttribute)
						dr.Delete("/{dataModelID}/attributes/{localID}", dep.DataModelsHandler.RemoveAttribute)
						dr.Post("/{dataModelID}/attributes/{localID}/constraints", dep.DataModelsHandler.AddConstraint)
						dr.Delete("/{dataModelID}/attributes/{localID}/constraints/{kind}", dep.DataModelsHandler.RemoveConstraint)
					})

					project.Route("/components", func(cr chi.Router) {
						cr.Get("/", dep.ComponentsHandler.List)
						cr.Post("/", dep.ComponentsHandler.Create)
						cr.Get("/{componentID}", dep.ComponentsHandler.Get)
						cr.Put("/{componentID}", dep.ComponentsHandler.Update)
						cr.Delete("/{componentID}", dep.ComponentsHandler.Delete)

						cr.Post("/{componentID}/entry-points", dep.ComponentsHandler.CreateEntryPoint)
						cr.Put("/{componentID}/entry-points/{entryPointID}", dep.ComponentsHandler.UpdateEntryPoint)
						cr.Delete("/{componentID}/entry-points/{entryPointID}", dep.ComponentsHandler.DeleteEntryPoint)
					})
				})
			})

			// Pattern builder is stateless and not tied to a project.
			protected.Post("/pattern", dep.DataModelsHandler.BuildPattern)
		})
	})

	return r
}
