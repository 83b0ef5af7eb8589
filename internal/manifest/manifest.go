// Package manifest decodes declarative YAML/JSON documents into the typed
// objects podlet knows how to store: Secret, ConfigMap, and Deployment.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
)

// Object is one decoded manifest document. Exactly one of the typed fields
// is set, indicated by Kind.
type Object struct {
	Kind       string
	Secret     *corev1.Secret
	ConfigMap  *corev1.ConfigMap
	Deployment *appsv1.Deployment
}

// Name returns the object's namespace-qualified name for messages.
func (o Object) Name() string {
	switch o.Kind {
	case "Secret":
		return o.Secret.Name
	case "ConfigMap":
		return o.ConfigMap.Name
	case "Deployment":
		return o.Deployment.Name
	}
	return ""
}

// DecodeFile reads and decodes all documents from a manifest file.
func DecodeFile(path string) ([]Object, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	objects, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return objects, nil
}

// Decode parses a stream of YAML or JSON documents. Empty documents are
// skipped; unrecognized kinds are an error.
func Decode(r io.Reader) ([]Object, error) {
	decoder := utilyaml.NewYAMLOrJSONDecoder(r, 4096)

	var objects []Object
	for {
		var u unstructured.Unstructured
		err := decoder.Decode(&u)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode manifest document: %w", err)
		}
		if len(u.Object) == 0 {
			continue
		}

		obj, err := typed(&u)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}

	if len(objects) == 0 {
		return nil, fmt.Errorf("manifest contains no objects")
	}
	return objects, nil
}

// typed converts an unstructured document into the matching typed object.
func typed(u *unstructured.Unstructured) (Object, error) {
	kind := u.GetKind()
	switch kind {
	case "Secret":
		var secret corev1.Secret
		if err := runtime.DefaultUnstructuredConverter.FromUnstructured(u.Object, &secret); err != nil {
			return Object{}, fmt.Errorf("failed to decode secret %q: %w", u.GetName(), err)
		}
		return Object{Kind: kind, Secret: &secret}, nil
	case "ConfigMap":
		var cm corev1.ConfigMap
		if err := runtime.DefaultUnstructuredConverter.FromUnstructured(u.Object, &cm); err != nil {
			return Object{}, fmt.Errorf("failed to decode configmap %q: %w", u.GetName(), err)
		}
		return Object{Kind: kind, ConfigMap: &cm}, nil
	case "Deployment":
		var dep appsv1.Deployment
		if err := runtime.DefaultUnstructuredConverter.FromUnstructured(u.Object, &dep); err != nil {
			return Object{}, fmt.Errorf("failed to decode deployment %q: %w", u.GetName(), err)
		}
		return Object{Kind: kind, Deployment: &dep}, nil
	case "":
		return Object{}, fmt.Errorf("manifest document has no kind")
	default:
		return Object{}, fmt.Errorf("unsupported kind %q (supported: Secret, ConfigMap, Deployment)", kind)
	}
}
