package store

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
)

// normalizeSecret folds stringData into data, applies defaults, and
// validates keys. The stored form always carries base64-encoded data only,
// matching the transport encoding a reader sees in the object's YAML.
func normalizeSecret(secret *corev1.Secret) error {
	secret.TypeMeta.APIVersion = "v1"
	secret.TypeMeta.Kind = "Secret"
	secret.Namespace = NamespaceOrDefault(secret.Namespace)
	if secret.Type == "" {
		secret.Type = corev1.SecretTypeOpaque
	}

	if len(secret.StringData) > 0 {
		if secret.Data == nil {
			secret.Data = make(map[string][]byte, len(secret.StringData))
		}
		// stringData wins over data on key collision.
		for k, v := range secret.StringData {
			secret.Data[k] = []byte(v)
		}
		secret.StringData = nil
	}

	keys := make([]string, 0, len(secret.Data))
	for k := range secret.Data {
		keys = append(keys, k)
	}
	return validateKeys(keys)
}

// CreateSecret stores a new secret. The stored copy is returned.
func (s *Store) CreateSecret(secret *corev1.Secret) (*corev1.Secret, error) {
	obj := secret.DeepCopy()
	if err := normalizeSecret(obj); err != nil {
		return nil, err
	}
	if err := create(s, obj.Namespace, resourceSecrets, &obj.ObjectMeta, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// UpdateSecret atomically replaces a stored secret. A stale resourceVersion
// on the incoming object yields ErrConflict.
func (s *Store) UpdateSecret(secret *corev1.Secret) (*corev1.Secret, error) {
	obj := secret.DeepCopy()
	if err := normalizeSecret(obj); err != nil {
		return nil, err
	}
	current, err := s.GetSecret(obj.Namespace, obj.Name)
	if err != nil {
		return nil, err
	}
	if err := update(s, obj.Namespace, resourceSecrets, &obj.ObjectMeta, current.ObjectMeta, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// GetSecret loads a secret by namespace and name.
func (s *Store) GetSecret(namespace, name string) (*corev1.Secret, error) {
	var secret corev1.Secret
	namespace = NamespaceOrDefault(namespace)
	if err := s.readInto(s.objectPath(namespace, resourceSecrets, name), &secret); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("secret %q: %w", namespace+"/"+name, ErrNotFound)
		}
		return nil, err
	}
	return &secret, nil
}

// ListSecrets returns all secrets in a namespace, sorted by name.
func (s *Store) ListSecrets(namespace string) ([]corev1.Secret, error) {
	namespace = NamespaceOrDefault(namespace)
	names, err := s.listNames(namespace, resourceSecrets)
	if err != nil {
		return nil, err
	}
	secrets := make([]corev1.Secret, 0, len(names))
	for _, name := range names {
		secret, err := s.GetSecret(namespace, name)
		if err != nil {
			return nil, err
		}
		secrets = append(secrets, *secret)
	}
	return secrets, nil
}

// DeleteSecret removes a secret from the store.
func (s *Store) DeleteSecret(namespace, name string) error {
	return s.delete(NamespaceOrDefault(namespace), resourceSecrets, name)
}
