package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/intervuelab/backend/internal/catalog"
	"github.com/intervuelab/backend/internal/config"
	"github.com/intervuelab/backend/internal/handler"
	"github.com/intervuelab/backend/internal/logger"
	interviewModel "github.com/intervuelab/backend/internal/model/interview"
	"github.com/intervuelab/backend/internal/service/ai"
	interviewService "github.com/intervuelab/backend/internal/service/interview"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Canonical question set, optionally overridden from a YAML file.
	canonical := catalog.Canonical()
	if cfg.Interview.QuestionsFile != "" {
		canonical, err = catalog.LoadFile(cfg.Interview.QuestionsFile)
		if err != nil {
			zlog.Fatal("failed to load question file",
				zap.String("file", cfg.Interview.QuestionsFile),
				zap.Error(err))
		}
		zlog.Info("loaded question set from file", zap.String("file", cfg.Interview.QuestionsFile))
	}

	broker := interviewService.NewBroker()
	store := interviewService.NewStore(canonical, broker)
	flow := interviewService.NewFlow(store, broker, zlog, time.Second)
	defer flow.Shutdown()

	var aiSvc *ai.Service
	if cfg.AI.Enabled() {
		aiSvc, err = ai.NewService(ctx, cfg.AI, zlog)
		if err != nil {
			zlog.Warn("failed to initialize AI service, continuing without it", zap.Error(err))
			aiSvc = nil
		} else {
			zlog.Info("AI service initialized")
		}
	} else {
		zlog.Info("Ark credentials not configured, assist endpoints use the built-in question set")
	}

	intakeFlow := bareFlow(canonical)
	router := handler.NewRouter(flow, store, broker, aiSvc, intakeFlow, zlog)

	startServer(ctx, cfg.Server, router)
}

// bareFlow strips expected answers so new sessions never carry them
// to the client before the canonical flow is installed.
func bareFlow(canonical []interviewModel.Question) []interviewModel.Question {
	bare := make([]interviewModel.Question, len(canonical))
	for i, q := range canonical {
		q.ExpectedAnswer = ""
		bare[i] = q
	}
	return bare
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Intervue backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
