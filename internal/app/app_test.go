package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/clearview-exteriors/booking-server/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Brand:       "ClearView Exterior Washing",
		Timezone:    "America/Los_Angeles",
		BindAddress: "127.0.0.1:0",
		StoragePath: filepath.Join(t.TempDir(), "bookings.db"),
		SMTPHost:    "smtp.example.test",
		SMTPPort:    2525,
		FromAddress: "bookings@example.test",
		LogLevel:    "info",
	}
}

func TestApplicationRunCancel(t *testing.T) {
	a := New(testConfig(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("run failed: %v", err)
	}
}

func TestApplicationRunBadStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoragePath = filepath.Join(t.TempDir(), "missing", "nested", "bookings.db")
	a := New(cfg, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.Run(ctx); err == nil {
		t.Fatal("expected storage error")
	}
}
