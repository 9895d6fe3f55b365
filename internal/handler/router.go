package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/intervuelab/backend/internal/handler/assist"
	"github.com/intervuelab/backend/internal/handler/dashboard"
	"github.com/intervuelab/backend/internal/handler/interview"
	middlewarePkg "github.com/intervuelab/backend/internal/middleware"
	interviewModel "github.com/intervuelab/backend/internal/model/interview"
	aiService "github.com/intervuelab/backend/internal/service/ai"
	interviewService "github.com/intervuelab/backend/internal/service/interview"
)

// NewRouter wires HTTP routes to core services. aiSvc may be nil; the
// assist endpoints fall back to the built-in question set.
func NewRouter(flow *interviewService.Flow, store *interviewService.Store, broker *interviewService.Broker, aiSvc *aiService.Service, intakeFlow []interviewModel.Question, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	interviewHandler := interview.New(flow, store, broker, intakeFlow)
	dashboardHandler := dashboard.New(store)
	assistHandler := assist.New(aiSvc, log)

	r.Route("/api", func(api chi.Router) {
		interviewHandler.RegisterRoutes(api)
		dashboardHandler.RegisterRoutes(api)
		assistHandler.RegisterRoutes(api)
	})

	return r
}
