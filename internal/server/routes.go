package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecotri/internal/handlers"
	"ecotri/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	prom := middlewares.NewPrometheusMiddleware()
	r.Use(middlewares.CorsMiddleware)
	r.Use(middlewares.RateLimit)
	r.Use(prom.Instrument)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/", ch.RootHandler)
	r.HandleFunc("/health", ch.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())

	s.registerAuthRoutes(r)
	s.registerSortRoutes(r)
	s.registerChatRoutes(r)
	s.registerHistoryRoutes(r)
	s.registerScoreRoutes(r)

	return r
}

func (s *Server) registerAuthRoutes(r *mux.Router) {
	ah := handlers.NewAuthHandler()
	r.HandleFunc("/api/auth/anonymous", ah.AnonymousToken).Methods("POST", "OPTIONS")
}

func (s *Server) registerSortRoutes(r *mux.Router) {
	sh := handlers.NewSortHandler(s.sortService)

	r.Handle("/api/sort", middlewares.AuthMiddleware(http.HandlerFunc(sh.Sort))).Methods("POST", "OPTIONS")
	r.Handle("/api/sort/current", middlewares.AuthMiddleware(http.HandlerFunc(sh.Current))).Methods("GET", "OPTIONS")
	r.Handle("/api/sort/reset", middlewares.AuthMiddleware(http.HandlerFunc(sh.Reset))).Methods("POST", "OPTIONS")
	r.Handle("/api/sort/active-point", middlewares.AuthMiddleware(http.HandlerFunc(sh.SetActivePoint))).Methods("POST", "OPTIONS")
	r.Handle("/api/sort/map-moved", middlewares.AuthMiddleware(http.HandlerFunc(sh.MapMoved))).Methods("POST", "OPTIONS")
	r.Handle("/api/sort/search-area", middlewares.AuthMiddleware(http.HandlerFunc(sh.SearchArea))).Methods("POST", "OPTIONS")
}

func (s *Server) registerChatRoutes(r *mux.Router) {
	ch := handlers.NewChatHandler(s.chatService)

	r.Handle("/api/chat", middlewares.AuthMiddleware(http.HandlerFunc(ch.Send))).Methods("POST", "OPTIONS")
	r.Handle("/api/chat", middlewares.AuthMiddleware(http.HandlerFunc(ch.Transcript))).Methods("GET", "OPTIONS")
}

func (s *Server) registerHistoryRoutes(r *mux.Router) {
	hh := handlers.NewHistoryHandler(s.history)
	r.Handle("/api/history", middlewares.AuthMiddleware(http.HandlerFunc(hh.GetHistory))).Methods("GET", "OPTIONS")
}

func (s *Server) registerScoreRoutes(r *mux.Router) {
	sh := handlers.NewScoreHandler(s.gamification)
	r.Handle("/api/score", middlewares.AuthMiddleware(http.HandlerFunc(sh.GetScore))).Methods("GET", "OPTIONS")
}
