// Package web serves the expense form and a JSON split endpoint over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/go-ports/fairshare/internal/service"
)

const shutdownTimeout = 5 * time.Second

// NewApp returns a fiber app with every route registered against svc.
// It does not listen; tests drive it through App.Test.
func NewApp(svc *service.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "fairshare",
		DisableStartupMessage: true,
		// Form values are kept by the store after the handler returns.
		Immutable:             true,
		ErrorHandler:          errorHandler,
	})
	app.Use(requestLogger())

	h := &handlers{svc: svc}
	app.Get("/", h.showForm)
	app.Post("/", h.submitForm)
	app.Post("/api/split", h.apiSplit)
	app.Get("/healthz", h.health)
	return app
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, svc *service.Service, addr string) error {
	app := NewApp(svc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()
	slog.Info("web server listening", "addr", addr)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web.Serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("web server shutting down")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("web.Serve: shutdown: %w", err)
	}
	return nil
}

// requestLogger logs one line per request.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}
		slog.Info("http request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start),
		)
		return err
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed", "path", c.Path(), "err", err)
		return c.Status(status).JSON(fiber.Map{"error": "internal error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
