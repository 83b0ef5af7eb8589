package handlers

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/imamik/podlet/internal/manifest"
	"github.com/imamik/podlet/internal/store"
)

// runEditor opens the user's editor on a file (for testing injection).
var runEditor = func(editor, path string) error {
	parts := strings.Fields(editor)
	parts = append(parts, path)
	cmd := exec.Command(parts[0], parts[1:]...) // #nosec G204
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q failed: %w", editor, err)
	}
	return nil
}

// Edit opens a stored object in the configured editor and saves the result
// back to the store. Concurrent modification is detected through the
// object's resourceVersion.
func Edit(_ context.Context, opts Options, kindArg, name string) error {
	kind, err := resolveKind(kindArg)
	if err != nil {
		return err
	}
	if kind == "Pod" {
		return fmt.Errorf("pods are started from deployments and cannot be edited; edit the deployment instead")
	}

	cfg, st, ns, err := environment(opts)
	if err != nil {
		return err
	}

	obj, err := fetchObject(st, kind, ns, name)
	if err != nil {
		return err
	}
	original, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to marshal object: %w", err)
	}

	edited, err := editBytes(cfg.EditorCommand(), original)
	if err != nil {
		return err
	}
	if bytes.Equal(original, edited) {
		fmt.Fprintln(stdout, "Edit cancelled, no changes made.")
		return nil
	}

	objects, err := manifest.Decode(bytes.NewReader(edited))
	if err != nil {
		return fmt.Errorf("edited document is not valid: %w", err)
	}
	if len(objects) != 1 || objects[0].Kind != kind {
		return fmt.Errorf("edited document must contain exactly one %s", kind)
	}
	updated := objects[0]
	if updated.Name() != name {
		return fmt.Errorf("renaming objects with edit is not supported")
	}

	if err := updateObject(st, updated); err != nil {
		if store.IsConflict(err) {
			return fmt.Errorf("%s %q was modified while you were editing; re-run edit: %w", kindToResource(kind), name, err)
		}
		return err
	}

	fmt.Fprintf(stdout, "%s/%s edited\n", kindToResource(kind), name)
	return nil
}

// editBytes round-trips content through the editor via a temp file.
func editBytes(editor string, content []byte) ([]byte, error) {
	tmp, err := os.CreateTemp("", "podlet-edit-*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := runEditor(editor, path); err != nil {
		return nil, err
	}
	edited, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}
	return edited, nil
}

func updateObject(st *store.Store, obj manifest.Object) error {
	switch obj.Kind {
	case "Secret":
		_, err := st.UpdateSecret(obj.Secret)
		return err
	case "ConfigMap":
		_, err := st.UpdateConfigMap(obj.ConfigMap)
		return err
	case "Deployment":
		_, err := st.UpdateDeployment(obj.Deployment)
		return err
	}
	return fmt.Errorf("unsupported kind %q", obj.Kind)
}
