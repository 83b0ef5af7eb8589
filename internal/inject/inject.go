// Package inject computes what a container observes when stored
// configuration objects are attached to it: the environment variable list
// and the set of files materialized under a volume mount.
//
// The functions here are pure with respect to the store: they resolve
// references through a Resolver snapshot and never touch the filesystem.
// The runtime package owns when these results are written into a sandbox,
// which is what gives injection its copy-at-start semantics.
package inject

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/podlet/internal/store"
)

// Resolver looks up configuration objects within a single namespace.
type Resolver interface {
	Secret(name string) (*corev1.Secret, error)
	ConfigMap(name string) (*corev1.ConfigMap, error)
}

type storeResolver struct {
	st        *store.Store
	namespace string
}

// NewStoreResolver returns a Resolver backed by the object store, scoped to
// one namespace.
func NewStoreResolver(st *store.Store, namespace string) Resolver {
	return &storeResolver{st: st, namespace: store.NamespaceOrDefault(namespace)}
}

func (r *storeResolver) Secret(name string) (*corev1.Secret, error) {
	return r.st.GetSecret(r.namespace, name)
}

func (r *storeResolver) ConfigMap(name string) (*corev1.ConfigMap, error) {
	return r.st.GetConfigMap(r.namespace, name)
}
