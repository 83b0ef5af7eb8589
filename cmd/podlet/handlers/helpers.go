// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"github.com/imamik/podlet/internal/config"
	"github.com/imamik/podlet/internal/runtime"
	"github.com/imamik/podlet/internal/store"
)

// Options carries the global flags shared by all commands.
type Options struct {
	// ConfigPath is the --config flag; empty means auto-detect podlet.yaml.
	ConfigPath string

	// Namespace is the --namespace flag; empty falls back to the
	// configured namespace, then "default".
	Namespace string
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig loads the tool configuration.
	loadConfig = config.LoadOrDefault

	// openStore opens the object store rooted at the state directory.
	openStore = store.Open

	// newRuntime creates the pod runtime over a store.
	newRuntime = func(st *store.Store) *runtime.Runtime {
		return runtime.New(st, newLogger())
	}

	// newLogger builds the runtime logger.
	newLogger = func() logr.Logger {
		return funcr.New(func(prefix, args string) {
			if prefix != "" {
				log.Printf("%s: %s", prefix, args)
			} else {
				log.Print(args)
			}
		}, funcr.Options{})
	}

	// stdout is where handlers write command output.
	stdout io.Writer = os.Stdout
)

// environment loads the configuration and opens the store, resolving the
// effective namespace.
func environment(opts Options) (*config.Config, *store.Store, string, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, nil, "", err
	}

	st, err := openStore(cfg.StateDir)
	if err != nil {
		return nil, nil, "", err
	}

	ns := opts.Namespace
	if ns == "" {
		ns = cfg.Namespace
	}
	return cfg, st, store.NamespaceOrDefault(ns), nil
}

// resolveKind maps a user-supplied resource argument to its canonical kind.
// The usual kubectl spellings are accepted: singular, plural, and the short
// names cm, po, and deploy.
func resolveKind(arg string) (string, error) {
	switch strings.ToLower(arg) {
	case "secret", "secrets":
		return "Secret", nil
	case "configmap", "configmaps", "cm":
		return "ConfigMap", nil
	case "deployment", "deployments", "deploy":
		return "Deployment", nil
	case "pod", "pods", "po":
		return "Pod", nil
	}
	return "", fmt.Errorf("unknown resource type %q (expected secret, configmap, deployment, or pod)", arg)
}
