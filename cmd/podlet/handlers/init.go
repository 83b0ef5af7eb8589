package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/podlet/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive configuration wizard.
	runWizard = config.RunWizard

	// writeConfig writes the configuration to a file.
	writeConfig = (*config.Config).Write
)

// Init runs the configuration wizard and writes the result to outputPath.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Fprintf(stdout, "Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	cfg, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved!")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  File:          %s\n", outputPath)
	fmt.Fprintf(stdout, "  State dir:     %s\n", cfg.StateDir)
	fmt.Fprintf(stdout, "  Namespace:     %s\n", cfg.Namespace)
	fmt.Fprintf(stdout, "  Sync interval: %s\n", cfg.SyncInterval)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Next steps:")
	fmt.Fprintln(stdout, "  1. Create a secret:")
	fmt.Fprintln(stdout, "     podlet create secret generic mariadb-root-password \\")
	fmt.Fprintln(stdout, "       --from-literal=password=KubernetesRocks!")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "  2. Apply a deployment manifest:")
	fmt.Fprintln(stdout, "     podlet apply -f examples/mariadb-deployment.yaml")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "  3. Start its pods:")
	fmt.Fprintln(stdout, "     podlet run mariadb-deployment")
	fmt.Fprintln(stdout)
}
