package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// readSourceFile reads a --from-file source (for testing injection).
var readSourceFile = os.ReadFile

// CreateSecret creates a generic Secret from literal and file sources.
func CreateSecret(_ context.Context, opts Options, name string, literals, files []string) error {
	_, st, ns, err := environment(opts)
	if err != nil {
		return err
	}

	stringData, err := parseLiterals(literals)
	if err != nil {
		return err
	}
	data, err := parseFileSources(files)
	if err != nil {
		return err
	}
	if len(stringData) == 0 && len(data) == 0 {
		return fmt.Errorf("at least one --from-literal or --from-file source is required")
	}

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: ns},
		StringData: stringData,
		Data:       data,
	}
	if _, err := st.CreateSecret(secret); err != nil {
		return fmt.Errorf("failed to create secret: %w", err)
	}

	fmt.Fprintf(stdout, "secret/%s created\n", name)
	return nil
}

// CreateConfigMap creates a ConfigMap from literal and file sources.
func CreateConfigMap(_ context.Context, opts Options, name string, literals, files []string) error {
	_, st, ns, err := environment(opts)
	if err != nil {
		return err
	}

	data, err := parseLiterals(literals)
	if err != nil {
		return err
	}
	fileData, err := parseFileSources(files)
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]string{}
	}
	for key, value := range fileData {
		if _, dup := data[key]; dup {
			return fmt.Errorf("duplicate key %q from file source", key)
		}
		data[key] = string(value)
	}
	if len(data) == 0 {
		return fmt.Errorf("at least one --from-literal or --from-file source is required")
	}

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: ns},
		Data:       data,
	}
	if _, err := st.CreateConfigMap(cm); err != nil {
		return fmt.Errorf("failed to create configmap: %w", err)
	}

	fmt.Fprintf(stdout, "configmap/%s created\n", name)
	return nil
}

// parseLiterals turns --from-literal key=value pairs into a map.
func parseLiterals(literals []string) (map[string]string, error) {
	if len(literals) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(literals))
	for _, lit := range literals {
		key, value, found := strings.Cut(lit, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid literal source %q, expected key=value", lit)
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("duplicate key %q in literal sources", key)
		}
		out[key] = value
	}
	return out, nil
}

// parseFileSources reads --from-file sources. Each source is either a path,
// keyed by its base name, or an explicit key=path pair.
func parseFileSources(files []string) (map[string][]byte, error) {
	if len(files) == 0 {
		return nil, nil
	}
	out := make(map[string][]byte, len(files))
	for _, src := range files {
		key, path, found := strings.Cut(src, "=")
		if !found {
			path = src
			key = filepath.Base(src)
		} else if key == "" || path == "" {
			return nil, fmt.Errorf("invalid file source %q, expected key=path", src)
		}

		data, err := readSourceFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file source %q: %w", path, err)
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("duplicate key %q in file sources", key)
		}
		out[key] = data
	}
	return out, nil
}
