package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/clearview-exteriors/booking-server/internal/api"
	"github.com/clearview-exteriors/booking-server/internal/booking"
	"github.com/clearview-exteriors/booking-server/internal/config"
	"github.com/clearview-exteriors/booking-server/internal/mailer"
	"github.com/clearview-exteriors/booking-server/internal/metrics"
	"github.com/clearview-exteriors/booking-server/internal/storage/sqlite"
)

type Application struct {
	cfg    config.Config
	logger *slog.Logger
}

func New(cfg config.Config, logger *slog.Logger) *Application {
	if logger == nil {
		logger = slog.Default()
	}
	return &Application{cfg: cfg, logger: logger}
}

// Run wires storage, mail and the HTTP server, then serves until ctx is
// cancelled.
func (a *Application) Run(ctx context.Context) error {
	store, err := sqlite.New(a.cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	sender := mailer.NewSMTP(a.cfg.SMTPHost, a.cfg.SMTPPort, a.cfg.SMTPUsername, a.cfg.SMTPPassword)

	service := booking.New(booking.Options{
		Store:         store,
		Sender:        sender,
		Metrics:       metrics.New(nil),
		Logger:        a.logger,
		Brand:         a.cfg.Brand,
		Timezone:      a.cfg.Timezone,
		FromAddress:   a.cfg.FromAddress,
		NotifyAddress: a.cfg.NotifyAddress,
	})

	server := api.New(api.Options{
		Bookings: service,
		Brand:    a.cfg.Brand,
		Logger:   a.logger,
	})

	a.logger.Info("listening", slog.String("addr", a.cfg.BindAddress))
	if err := server.ServeTCP(ctx, a.cfg.BindAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
