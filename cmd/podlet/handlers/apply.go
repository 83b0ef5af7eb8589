package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/imamik/podlet/internal/manifest"
	"github.com/imamik/podlet/internal/store"
)

// Factory function variables for apply - can be replaced in tests.
var (
	decodeManifestFile = manifest.DecodeFile
	decodeManifest     = manifest.Decode
	stdin              io.Reader = os.Stdin
)

// Apply creates or updates the objects declared in the given manifest
// files. A filename of "-" reads from standard input.
func Apply(_ context.Context, opts Options, filenames []string) error {
	if len(filenames) == 0 {
		return fmt.Errorf("at least one -f manifest file is required")
	}

	_, st, ns, err := environment(opts)
	if err != nil {
		return err
	}

	var objects []manifest.Object
	for _, filename := range filenames {
		var decoded []manifest.Object
		var err error
		if filename == "-" {
			decoded, err = decodeManifest(stdin)
		} else {
			decoded, err = decodeManifestFile(filename)
		}
		if err != nil {
			return err
		}
		objects = append(objects, decoded...)
	}
	if len(objects) == 0 {
		return fmt.Errorf("no objects found in manifest input")
	}

	for _, obj := range objects {
		action, err := applyObject(st, ns, obj)
		if err != nil {
			return fmt.Errorf("failed to apply %s/%s: %w", obj.Kind, obj.Name(), err)
		}
		fmt.Fprintf(stdout, "%s/%s %s\n", kindToResource(obj.Kind), obj.Name(), action)
	}
	return nil
}

// applyObject creates the object, or updates it in place when it already
// exists. The stored resourceVersion is carried over so the update does
// not trip conflict detection.
func applyObject(st *store.Store, ns string, obj manifest.Object) (string, error) {
	switch obj.Kind {
	case "Secret":
		secret := obj.Secret
		if secret.Namespace == "" {
			secret.Namespace = ns
		}
		if _, err := st.CreateSecret(secret); err == nil {
			return "created", nil
		} else if !store.IsAlreadyExists(err) {
			return "", err
		}
		current, err := st.GetSecret(secret.Namespace, secret.Name)
		if err != nil {
			return "", err
		}
		secret.ResourceVersion = current.ResourceVersion
		if _, err := st.UpdateSecret(secret); err != nil {
			return "", err
		}
		return "configured", nil

	case "ConfigMap":
		cm := obj.ConfigMap
		if cm.Namespace == "" {
			cm.Namespace = ns
		}
		if _, err := st.CreateConfigMap(cm); err == nil {
			return "created", nil
		} else if !store.IsAlreadyExists(err) {
			return "", err
		}
		current, err := st.GetConfigMap(cm.Namespace, cm.Name)
		if err != nil {
			return "", err
		}
		cm.ResourceVersion = current.ResourceVersion
		if _, err := st.UpdateConfigMap(cm); err != nil {
			return "", err
		}
		return "configured", nil

	case "Deployment":
		dep := obj.Deployment
		if dep.Namespace == "" {
			dep.Namespace = ns
		}
		if _, err := st.CreateDeployment(dep); err == nil {
			return "created", nil
		} else if !store.IsAlreadyExists(err) {
			return "", err
		}
		current, err := st.GetDeployment(dep.Namespace, dep.Name)
		if err != nil {
			return "", err
		}
		dep.ResourceVersion = current.ResourceVersion
		if _, err := st.UpdateDeployment(dep); err != nil {
			return "", err
		}
		return "configured", nil
	}
	return "", fmt.Errorf("unsupported kind %q", obj.Kind)
}

func kindToResource(kind string) string {
	switch kind {
	case "Secret":
		return "secret"
	case "ConfigMap":
		return "configmap"
	case "Deployment":
		return "deployment"
	case "Pod":
		return "pod"
	}
	return kind
}
