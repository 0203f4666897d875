package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ohowland/beyond_core/internal/pkg/engine"
	"github.com/ohowland/beyond_core/internal/pkg/webservice"
)

const shutdownTimeout = 5 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := engine.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	app := webservice.NewApp(engine.New(opts, logger), logger)
	srv := &http.Server{Addr: cfg.Webservice.Port, Handler: app.Router()}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	errs := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Webservice.Port))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case sig := <-sigs:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
