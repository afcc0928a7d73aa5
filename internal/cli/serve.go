package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/versewalk/versewalk/internal/config"
	"github.com/versewalk/versewalk/internal/engine"
	"github.com/versewalk/versewalk/internal/logging"
	"github.com/versewalk/versewalk/internal/server"
	"github.com/versewalk/versewalk/internal/store"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config file (default ~/.versewalk/config.toml)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer logger.Sync()

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return errors.Wrap(err, "resolve db path")
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer db.Close()

	eng := engine.New(db, logger)
	srv := server.New(db, eng, logger, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("versewalk serving", zap.String("addr", addr), zap.String("db", dbPath))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
