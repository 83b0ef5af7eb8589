package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/podlet/internal/inject"
	"github.com/imamik/podlet/internal/store"
)

// SandboxDir returns the directory holding a pod's materialized containers.
func SandboxDir(st *store.Store, namespace, pod string) string {
	return filepath.Join(st.RunDir(), store.NamespaceOrDefault(namespace), pod)
}

// ContainerDir returns one container's directory inside a pod sandbox.
func ContainerDir(st *store.Store, namespace, pod, container string) string {
	return filepath.Join(SandboxDir(st, namespace, pod), "containers", container)
}

// EnvFile returns the path of a container's environment file.
func EnvFile(st *store.Store, namespace, pod, container string) string {
	return filepath.Join(ContainerDir(st, namespace, pod, container), "env")
}

// MountDir returns the sandbox directory backing a container's mount point.
// The mount path keeps its structure below the sandbox, so /etc/mysql/conf.d
// lands under containers/<name>/mounts/etc/mysql/conf.d.
func MountDir(st *store.Store, namespace, pod, container, mountPath string) string {
	rel := strings.TrimPrefix(filepath.Clean(mountPath), string(filepath.Separator))
	return filepath.Join(ContainerDir(st, namespace, pod, container), "mounts", rel)
}

func removeSandbox(st *store.Store, namespace, pod string) error {
	if err := os.RemoveAll(SandboxDir(st, namespace, pod)); err != nil {
		return fmt.Errorf("failed to remove sandbox: %w", err)
	}
	return nil
}

// materialize builds a pod's sandbox from scratch: the environment file and
// every volume-mounted file, all computed from the store's current contents.
func (r *Runtime) materialize(pod *corev1.Pod) error {
	resolver := inject.NewStoreResolver(r.store, pod.Namespace)

	if err := removeSandbox(r.store, pod.Namespace, pod.Name); err != nil {
		return err
	}

	for _, container := range pod.Spec.Containers {
		env, err := inject.Env(container, resolver)
		if err != nil {
			return err
		}
		if len(env.Skipped) > 0 {
			r.log.Info("skipped invalid environment variable names",
				"pod", pod.Namespace+"/"+pod.Name, "container", container.Name, "keys", env.Skipped)
		}
		if err := writeEnvFile(EnvFile(r.store, pod.Namespace, pod.Name, container.Name), env.Vars); err != nil {
			return err
		}

		for _, mount := range container.VolumeMounts {
			files, err := inject.Files(mount, pod.Spec.Volumes, resolver)
			if err != nil {
				return err
			}
			dir := MountDir(r.store, pod.Namespace, pod.Name, container.Name, mount.MountPath)
			for _, f := range files {
				if err := writeMountFile(dir, f); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeEnvFile(path string, vars []inject.EnvVar) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create container directory: %w", err)
	}
	var b strings.Builder
	for _, v := range vars {
		b.WriteString(v.Name)
		b.WriteByte('=')
		b.WriteString(v.Value)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}
	return nil
}

func writeMountFile(dir string, f inject.File) error {
	path := filepath.Join(dir, f.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create mount directory: %w", err)
	}
	if err := os.WriteFile(path, f.Data, f.Mode); err != nil {
		return fmt.Errorf("failed to write mounted file: %w", err)
	}
	// WriteFile only applies the mode on create; enforce it on rewrite too.
	if err := os.Chmod(path, f.Mode); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	return nil
}
