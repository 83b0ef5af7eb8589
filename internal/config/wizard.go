package config

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"k8s.io/apimachinery/pkg/util/validation"
)

// RunWizard walks the user through creating a podlet.yaml and returns the
// resulting configuration.
func RunWizard(ctx context.Context) (*Config, error) {
	cfg := Default()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("State directory").
				Description("Where podlet keeps stored objects and pod sandboxes").
				Placeholder(DefaultStateDir).
				Value(&cfg.StateDir),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Default namespace").
				Description("Namespace used when -n is not given (DNS-safe, lowercase)").
				Placeholder("default").
				Value(&cfg.Namespace).
				Validate(validateNamespace),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Volume sync interval").
				Description("How often the watch view refreshes volume files from edited objects").
				Options(
					huh.NewOption("30 seconds", (30*time.Second).String()),
					huh.NewOption("1 minute", (1*time.Minute).String()),
					huh.NewOption("5 minutes", (5*time.Minute).String()),
				).
				Value(&cfg.SyncInterval),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard aborted: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateNamespace(s string) error {
	if s == "" {
		return nil
	}
	if errs := validation.IsDNS1123Label(s); len(errs) > 0 {
		return fmt.Errorf("must be a DNS-safe lowercase name")
	}
	return nil
}
