package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/viper"

	eventsadapter "github.com/mkarren/techsync/internal/adapters/events"
	statusadapter "github.com/mkarren/techsync/internal/adapters/render/status"
	filestore "github.com/mkarren/techsync/internal/adapters/store/file"
	"github.com/mkarren/techsync/internal/adapters/syncapi"
	"github.com/mkarren/techsync/internal/application"
	"github.com/mkarren/techsync/internal/ports"
)

type app struct {
	session        *application.Session
	client         ports.SyncClient
	bus            *eventsadapter.Bus
	statusRenderer func(statusadapter.Report, statusadapter.RenderOptions) (string, error)
	staleAfter     time.Duration
	now            func() time.Time
}

func wireApp() (*app, error) {
	store, err := filestore.NewStore(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire snapshot store: %w", err)
	}

	client := &syncapi.Client{
		BaseURL:    envOrDefault("TECHSYNC_API_URL", "https://sync.techsync.app"),
		HTTPClient: http.DefaultClient,
	}

	bus := eventsadapter.NewBus()

	return &app{
		session:        application.NewSession(store, client, ports.SystemClock{}, bus),
		client:         client,
		bus:            bus,
		statusRenderer: statusadapter.Render,
		staleAfter:     10 * time.Minute,
		now:            time.Now,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
