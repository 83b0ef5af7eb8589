package store

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
)

func normalizeConfigMap(cm *corev1.ConfigMap) error {
	cm.TypeMeta.APIVersion = "v1"
	cm.TypeMeta.Kind = "ConfigMap"
	cm.Namespace = NamespaceOrDefault(cm.Namespace)

	keys := make([]string, 0, len(cm.Data)+len(cm.BinaryData))
	for k := range cm.Data {
		keys = append(keys, k)
	}
	for k := range cm.BinaryData {
		keys = append(keys, k)
	}
	return validateKeys(keys)
}

// CreateConfigMap stores a new config map. The stored copy is returned.
func (s *Store) CreateConfigMap(cm *corev1.ConfigMap) (*corev1.ConfigMap, error) {
	obj := cm.DeepCopy()
	if err := normalizeConfigMap(obj); err != nil {
		return nil, err
	}
	if err := create(s, obj.Namespace, resourceConfigMaps, &obj.ObjectMeta, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// UpdateConfigMap atomically replaces a stored config map.
func (s *Store) UpdateConfigMap(cm *corev1.ConfigMap) (*corev1.ConfigMap, error) {
	obj := cm.DeepCopy()
	if err := normalizeConfigMap(obj); err != nil {
		return nil, err
	}
	current, err := s.GetConfigMap(obj.Namespace, obj.Name)
	if err != nil {
		return nil, err
	}
	if err := update(s, obj.Namespace, resourceConfigMaps, &obj.ObjectMeta, current.ObjectMeta, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// GetConfigMap loads a config map by namespace and name.
func (s *Store) GetConfigMap(namespace, name string) (*corev1.ConfigMap, error) {
	var cm corev1.ConfigMap
	namespace = NamespaceOrDefault(namespace)
	if err := s.readInto(s.objectPath(namespace, resourceConfigMaps, name), &cm); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("configmap %q: %w", namespace+"/"+name, ErrNotFound)
		}
		return nil, err
	}
	return &cm, nil
}

// ListConfigMaps returns all config maps in a namespace, sorted by name.
func (s *Store) ListConfigMaps(namespace string) ([]corev1.ConfigMap, error) {
	namespace = NamespaceOrDefault(namespace)
	names, err := s.listNames(namespace, resourceConfigMaps)
	if err != nil {
		return nil, err
	}
	cms := make([]corev1.ConfigMap, 0, len(names))
	for _, name := range names {
		cm, err := s.GetConfigMap(namespace, name)
		if err != nil {
			return nil, err
		}
		cms = append(cms, *cm)
	}
	return cms, nil
}

// DeleteConfigMap removes a config map from the store.
func (s *Store) DeleteConfigMap(namespace, name string) error {
	return s.delete(NamespaceOrDefault(namespace), resourceConfigMaps, name)
}
