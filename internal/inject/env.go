package inject

import (
	"fmt"
	"sort"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/imamik/podlet/internal/store"
)

// EnvVar is one resolved environment variable.
type EnvVar struct {
	Name  string
	Value string
}

// EnvResult holds the resolved environment for a container.
type EnvResult struct {
	// Vars is the final environment, deterministically ordered:
	// envFrom-sourced variables first (position of first appearance, value
	// of last writer), then explicit env entries in declaration order.
	Vars []EnvVar

	// Skipped lists envFrom keys that were dropped because they are not
	// valid environment variable names.
	Skipped []string
}

// Env resolves the full environment for a container against a snapshot of
// the store.
//
// Whole-object sources (envFrom) produce one variable per key, named exactly
// as the key (plus an optional prefix). When several sources define the same
// name, the last source wins. Explicit env entries always win over envFrom.
func Env(container corev1.Container, r Resolver) (EnvResult, error) {
	var result EnvResult

	index := map[string]int{}
	set := func(name, value string) {
		if i, ok := index[name]; ok {
			result.Vars[i].Value = value
			return
		}
		index[name] = len(result.Vars)
		result.Vars = append(result.Vars, EnvVar{Name: name, Value: value})
	}

	for _, src := range container.EnvFrom {
		pairs, err := envFromSource(src, r)
		if err != nil {
			return EnvResult{}, fmt.Errorf("container %q: %w", container.Name, err)
		}
		for _, p := range pairs {
			if errs := validation.IsEnvVarName(p.Name); len(errs) > 0 {
				result.Skipped = append(result.Skipped, p.Name)
				continue
			}
			set(p.Name, p.Value)
		}
	}

	for _, ev := range container.Env {
		if ev.ValueFrom == nil {
			set(ev.Name, ev.Value)
			continue
		}
		value, ok, err := envFromKeyRef(ev.ValueFrom, r)
		if err != nil {
			return EnvResult{}, fmt.Errorf("container %q: env %q: %w", container.Name, ev.Name, err)
		}
		if ok {
			set(ev.Name, value)
		}
	}

	return result, nil
}

// envFromSource expands one envFrom entry into key/value pairs, keys sorted
// for deterministic output. A missing optional object expands to nothing.
func envFromSource(src corev1.EnvFromSource, r Resolver) ([]EnvVar, error) {
	var pairs []EnvVar

	switch {
	case src.SecretRef != nil:
		secret, err := r.Secret(src.SecretRef.Name)
		if err != nil {
			if store.IsNotFound(err) && optional(src.SecretRef.Optional) {
				return nil, nil
			}
			return nil, err
		}
		for k, v := range secret.Data {
			pairs = append(pairs, EnvVar{Name: src.Prefix + k, Value: string(v)})
		}

	case src.ConfigMapRef != nil:
		cm, err := r.ConfigMap(src.ConfigMapRef.Name)
		if err != nil {
			if store.IsNotFound(err) && optional(src.ConfigMapRef.Optional) {
				return nil, nil
			}
			return nil, err
		}
		for k, v := range cm.Data {
			pairs = append(pairs, EnvVar{Name: src.Prefix + k, Value: v})
		}
		for k, v := range cm.BinaryData {
			pairs = append(pairs, EnvVar{Name: src.Prefix + k, Value: string(v)})
		}

	default:
		return nil, fmt.Errorf("envFrom source has neither secretRef nor configMapRef")
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })
	return pairs, nil
}

// envFromKeyRef resolves a single-key reference. The boolean result is false
// when an optional reference points at a missing object or key, meaning the
// variable is omitted entirely.
func envFromKeyRef(src *corev1.EnvVarSource, r Resolver) (string, bool, error) {
	switch {
	case src.SecretKeyRef != nil:
		ref := src.SecretKeyRef
		secret, err := r.Secret(ref.Name)
		if err != nil {
			if store.IsNotFound(err) && optional(ref.Optional) {
				return "", false, nil
			}
			return "", false, err
		}
		value, ok := secret.Data[ref.Key]
		if !ok {
			if optional(ref.Optional) {
				return "", false, nil
			}
			return "", false, fmt.Errorf("key %q not found in secret %q", ref.Key, ref.Name)
		}
		return string(value), true, nil

	case src.ConfigMapKeyRef != nil:
		ref := src.ConfigMapKeyRef
		cm, err := r.ConfigMap(ref.Name)
		if err != nil {
			if store.IsNotFound(err) && optional(ref.Optional) {
				return "", false, nil
			}
			return "", false, err
		}
		if value, ok := cm.Data[ref.Key]; ok {
			return value, true, nil
		}
		if value, ok := cm.BinaryData[ref.Key]; ok {
			return string(value), true, nil
		}
		if optional(ref.Optional) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("key %q not found in configmap %q", ref.Key, ref.Name)

	default:
		return "", false, fmt.Errorf("valueFrom has neither secretKeyRef nor configMapKeyRef")
	}
}

func optional(b *bool) bool { return b != nil && *b }
