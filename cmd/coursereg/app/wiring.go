package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/campushq/coursereg/internal/config"
	"github.com/campushq/coursereg/internal/coordinator"
	"github.com/campushq/coursereg/internal/courseapi"
	"github.com/campushq/coursereg/internal/httpclient"
	"github.com/campushq/coursereg/internal/kvstore"
	"github.com/campushq/coursereg/internal/modal"
)

// consoleNotifier prints coordinator notices to the terminal
type consoleNotifier struct{}

func (consoleNotifier) Success(message string) {
	fmt.Fprintf(os.Stdout, "✓ %s\n", message)
}

func (consoleNotifier) Failure(message string) {
	fmt.Fprintf(os.Stderr, "✗ %s\n", message)
}

// buildCoordinator wires configuration, storage, HTTP client, and terminal
// surfaces into an initialized coordinator
func buildCoordinator(ctx context.Context) (coordinator.Coordinator, error) {
	configPath := viper.GetString("config")
	if configPath == "" {
		return nil, fmt.Errorf("--config is required")
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	stateDir, err := cfg.GetStateDir()
	if err != nil {
		return nil, err
	}
	store := kvstore.NewFileStore(stateDir)

	client := httpclient.NewDefaultClient(
		cfg.GetRequestTimeout(),
		httpclient.WithBearerToken(func() string {
			token, err := store.Get(ctx, kvstore.KeyToken)
			if err != nil {
				return ""
			}
			return token
		}),
	)
	service := courseapi.NewHTTPCourseService(client, cfg.Endpoint)

	coord := coordinator.New(
		service,
		store,
		modal.NewTerminalPresenter(service),
		modal.NewTerminalConfirmer(os.Stdin, os.Stdout),
		coordinator.WithNotifier(consoleNotifier{}),
		coordinator.WithFallbackGeneration(cfg.FallbackGeneration),
	)

	if err := coord.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize coordinator: %w", err)
	}
	return coord, nil
}
