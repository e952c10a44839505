package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/joho/godotenv/autoload"

	"ecotri/internal/config"
	"ecotri/internal/database"
	"ecotri/internal/middlewares"
	"ecotri/internal/repositories"
	"ecotri/internal/services"
)

type Server struct {
	port       int
	httpServer *http.Server
	db         database.Service

	sortService  services.SortService
	chatService  services.ChatService
	history      services.HistoryService
	gamification services.GamificationService
}

func NewServer() *Server {
	portStr := os.Getenv("PORT")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Warn().Str("port", portStr).Msg("Invalid PORT environment variable. Using default 8080.")
		port = 8080
	}

	db := database.New()
	limits := config.LoadLimits()

	historyRepo := repositories.NewHistoryRepository(db)
	scoreRepo := repositories.NewScoreRepository(db)

	assistant := services.NewGeminiAssistant()
	sessions := services.NewSessionStore(limits)
	go sessions.Cleanup()
	go middlewares.CleanupVisitors()

	history := services.NewHistoryService(historyRepo, limits.HistoryLimit)
	gamification := services.NewGamificationService(scoreRepo, limits.PointsPerSort, config.DefaultLevels())

	s := &Server{
		port:         port,
		db:           db,
		sortService:  services.NewSortService(assistant, sessions, history, gamification, limits),
		chatService:  services.NewChatService(assistant, sessions),
		history:      history,
		gamification: gamification,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Int("port", s.port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}

	if err := s.db.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
