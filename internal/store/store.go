// Package store implements the file-backed, namespaced object store behind
// the podlet CLI.
//
// Objects are kept one-per-file as YAML under
// <root>/objects/<namespace>/<resource>/<name>.yaml. Every write goes through
// a temp file followed by an atomic rename, so a concurrent reader never
// observes a partially written object. Objects are replaced wholesale: the
// store keeps no history, only a monotonically increasing resourceVersion
// used to detect conflicting edits.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation"
	"sigs.k8s.io/yaml"
)

// DefaultNamespace is assumed whenever an object carries no namespace.
const DefaultNamespace = "default"

// Resource directory names, one per stored kind.
const (
	resourceSecrets     = "secrets"
	resourceConfigMaps  = "configmaps"
	resourceDeployments = "deployments"
	resourcePods        = "pods"
)

// Store persists namespaced objects under a state directory.
type Store struct {
	root string
}

// Open initializes a store rooted at dir, creating the directory layout if
// needed.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("state directory must not be empty")
	}
	if err := os.MkdirAll(filepath.Join(dir, "objects"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &Store{root: dir}, nil
}

// Root returns the state directory the store was opened with.
func (s *Store) Root() string { return s.root }

// RunDir returns the directory under which pod sandboxes are materialized.
func (s *Store) RunDir() string { return filepath.Join(s.root, "run") }

func (s *Store) resourceDir(namespace, resource string) string {
	return filepath.Join(s.root, "objects", namespace, resource)
}

func (s *Store) objectPath(namespace, resource, name string) string {
	return filepath.Join(s.resourceDir(namespace, resource), name+".yaml")
}

// NamespaceOrDefault returns ns, or the default namespace when ns is empty.
func NamespaceOrDefault(ns string) string {
	if ns == "" {
		return DefaultNamespace
	}
	return ns
}

// validateMeta checks that name and namespace are usable as file names and
// valid DNS subdomains.
func validateMeta(namespace, name string) error {
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidName)
	}
	if errs := validation.IsDNS1123Subdomain(name); len(errs) > 0 {
		return fmt.Errorf("%w: %q: %s", ErrInvalidName, name, strings.Join(errs, "; "))
	}
	if errs := validation.IsDNS1123Label(namespace); len(errs) > 0 {
		return fmt.Errorf("%w: namespace %q: %s", ErrInvalidName, namespace, strings.Join(errs, "; "))
	}
	return nil
}

// validateKeys checks that every data key is a valid identifier.
func validateKeys(keys []string) error {
	for _, k := range keys {
		if errs := validation.IsConfigMapKey(k); len(errs) > 0 {
			return fmt.Errorf("%w: %q: %s", ErrInvalidKey, k, strings.Join(errs, "; "))
		}
	}
	return nil
}

// writeFile marshals obj to YAML and atomically replaces the file at path.
func (s *Store) writeFile(path string, obj any) error {
	data, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to marshal object: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace object file: %w", err)
	}
	return nil
}

// readInto unmarshals the object at path into out.
func (s *Store) readInto(path string, out any) error {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read object: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal object: %w", err)
	}
	return nil
}

// create persists a new object, failing if one already exists.
func create(s *Store, namespace, resource string, meta *metav1.ObjectMeta, obj any) error {
	if err := validateMeta(namespace, meta.Name); err != nil {
		return err
	}
	path := s.objectPath(namespace, resource, meta.Name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s %q: %w", strings.TrimSuffix(resource, "s"), namespace+"/"+meta.Name, ErrAlreadyExists)
	}
	meta.Namespace = namespace
	meta.ResourceVersion = "1"
	if meta.CreationTimestamp.IsZero() {
		meta.CreationTimestamp = metav1.Now()
	}
	return s.writeFile(path, obj)
}

// update replaces an existing object. currentVersion is the resourceVersion
// already on disk; callerVersion is what the caller last observed. A
// non-empty, stale callerVersion yields ErrConflict.
func update(s *Store, namespace, resource string, meta *metav1.ObjectMeta, currentMeta metav1.ObjectMeta, obj any) error {
	if meta.ResourceVersion != "" && meta.ResourceVersion != currentMeta.ResourceVersion {
		return fmt.Errorf("%s %q: %w", strings.TrimSuffix(resource, "s"), namespace+"/"+meta.Name, ErrConflict)
	}
	meta.Namespace = namespace
	meta.CreationTimestamp = currentMeta.CreationTimestamp
	meta.ResourceVersion = bumpVersion(currentMeta.ResourceVersion)
	return s.writeFile(s.objectPath(namespace, resource, meta.Name), obj)
}

func (s *Store) delete(namespace, resource, name string) error {
	err := os.Remove(s.objectPath(namespace, resource, name))
	if os.IsNotExist(err) {
		return fmt.Errorf("%s %q: %w", strings.TrimSuffix(resource, "s"), namespace+"/"+name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// listNames returns the sorted object names stored for a resource.
func (s *Store) listNames(namespace, resource string) ([]string, error) {
	entries, err := os.ReadDir(s.resourceDir(namespace, resource))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return names, nil
}

func bumpVersion(v string) string {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return "1"
	}
	return strconv.FormatInt(n+1, 10)
}
