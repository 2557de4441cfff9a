package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"alumni-chat/controllers"
	"alumni-chat/routes"
	"alumni-chat/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and websocket server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required (set ALUMNI_CHAT_AUTH_JWT_SECRET)")
	}
	gin.SetMode(cfg.Server.Mode)

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := services.NewHub(logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		hub.Run(hubCtx)
		close(hubDone)
	}()

	ws := services.NewWSHandler(hub, svc.store, services.WSConfig{
		PingInterval: cfg.WS.PingInterval,
		PongTimeout:  cfg.WS.PongTimeout,
	}, logger)
	h := controllers.NewHandler(svc.store, svc.indexer, svc.profiles, hub, ws, logger)
	router := routes.RegisterRoutes(h, cfg.Server.AllowOrigins, cfg.Auth.JWTSecret)

	httpServer := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     router,
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr, "store", cfg.Store.Driver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stopHub()
		<-hubDone
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// Hijacked websocket connections are not covered by Shutdown.
	stopHub()
	<-hubDone
	logger.Info("server stopped")
	return nil
}
