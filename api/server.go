package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nobodylogger/worklog-search/auth"
	"github.com/nobodylogger/worklog-search/config"
	"github.com/nobodylogger/worklog-search/db/history"
	"github.com/nobodylogger/worklog-search/db/store"
	"github.com/nobodylogger/worklog-search/logger"
	"github.com/nobodylogger/worklog-search/services/search"
	"github.com/nobodylogger/worklog-search/validation"
)

type server struct {
	router     *gin.Engine
	httpServer *http.Server
	store      store.DB
	history    history.DB
	search     *search.Service
	verifier   *auth.Verifier
	validator  *validation.Validator
	logger     logger.Logger
	config     *config.Config
}

func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)

	defer cancel()

	s := &server{
		logger: logger.New(),
		config: cfg,
	}
	if err := s.setupDependencies(); err != nil {
		return err
	}
	s.setupRouter()
	s.setupHTTPServer()
	s.setupGracefulShutdown(ctx)

	return nil
}

func (s *server) setupDependencies() error {
	var err error
	s.store, err = store.New(s.logger, s.config.GetStorePath())
	if err != nil {
		s.logger.Error("error creating record store", "err", err.Error())
		return err
	}
	s.history, err = history.New(s.logger, s.config.GetHistoryPath())
	if err != nil {
		s.logger.Error("error creating history store", "err", err.Error())
		return err
	}
	s.verifier, err = auth.NewVerifier(s.logger, s.config.GetJWTSecret())
	if err != nil {
		s.logger.Error("error creating auth verifier", "err", err.Error())
		return err
	}
	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}
	s.search = search.New(s.logger, s.store, s.history)

	return nil

}

func (s *server) setupRouter() {
	router := newRouter()

	router.Use(loggingMiddleware(s.logger))

	setupRoutes(router, s.logger, s.search, s.verifier, s.validator)

	s.router = router
}

func (s *server) setupHTTPServer() {

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.config.GetPort()),
		Handler: s.router.Handler(),
	}
	s.httpServer = httpServer
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
}

func (s *server) setupGracefulShutdown(ctx context.Context) {

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		s.logger.Info("starting to shut down http server")
		shutdownCtx := context.Background()
		shutdownCtx, cancel := context.WithTimeout(shutdownCtx, 10*time.Second)
		defer cancel()
		s.store.Close()
		s.history.Close()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error shutting down http server", "err", err)
			return
		}
		s.logger.Info("shut down http server successfully")
	}()

	wg.Wait()
}
