package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/easyshop/storefront-go/internal/clients"
	"github.com/easyshop/storefront-go/internal/config"
	"github.com/easyshop/storefront-go/internal/web"
)

func main() {
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	app := &cli.App{
		Name:  "storefront",
		Usage: "server-rendered storefront client for the easyshop API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port (overrides STOREFRONT_PORT)"},
			&cli.StringFlag{Name: "api-url", Usage: "backend API base url (overrides STOREFRONT_API_BASE_URL)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if v := c.String("port"); v != "" {
				cfg.Port = v
			}
			if v := c.String("api-url"); v != "" {
				cfg.APIBaseURL = v
			}
			return serve(cfg, logger)
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("storefront exited")
	}
}

func serve(cfg config.Config, logger *logrus.Logger) error {
	sharedHTTP := &http.Client{Timeout: cfg.UpstreamTimeout}
	api := clients.NewClient("storefront-api", cfg.APIBaseURL, sharedHTTP)

	app := web.NewApp(cfg, api, logger)
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           web.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.Port).Info("storefront listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("shutdown error")
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
