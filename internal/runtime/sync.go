package runtime

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/podlet/internal/inject"
	"github.com/imamik/podlet/internal/store"
)

// SyncPod re-synchronizes a running pod's volume files from the current
// store contents and returns the number of files written or removed.
//
// Only volume-mounted files are refreshed; the environment file is a
// start-time copy and is never touched until the pod restarts.
func (r *Runtime) SyncPod(namespace, name string) (int, error) {
	namespace = store.NamespaceOrDefault(namespace)
	pod, err := r.store.GetPod(namespace, name)
	if err != nil {
		return 0, err
	}
	if pod.Status.Phase != corev1.PodRunning {
		return 0, fmt.Errorf("pod %q is not running", namespace+"/"+name)
	}

	resolver := inject.NewStoreResolver(r.store, namespace)
	changed := 0

	for _, container := range pod.Spec.Containers {
		for _, mount := range container.VolumeMounts {
			files, err := inject.Files(mount, pod.Spec.Volumes, resolver)
			if err != nil {
				return changed, fmt.Errorf("failed to sync pod %q: %w", namespace+"/"+name, err)
			}
			dir := MountDir(r.store, namespace, name, container.Name, mount.MountPath)
			n, err := syncMountDir(dir, files)
			if err != nil {
				return changed, fmt.Errorf("failed to sync pod %q: %w", namespace+"/"+name, err)
			}
			changed += n
		}
	}

	if pod.Annotations == nil {
		pod.Annotations = map[string]string{}
	}
	pod.Annotations[LastSyncAnnotation] = r.now().UTC().Format(time.RFC3339)
	if _, err := r.store.SavePod(pod); err != nil {
		return changed, err
	}

	if changed > 0 {
		r.log.Info("synchronized volume files", "namespace", namespace, "pod", name, "files", changed)
	}
	return changed, nil
}

// SyncAll synchronizes every running pod in a namespace. It returns the
// total number of files refreshed.
func (r *Runtime) SyncAll(ctx context.Context, namespace string) (int, error) {
	pods, err := r.store.ListPods(namespace)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, pod := range pods {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		if pod.Status.Phase != corev1.PodRunning {
			continue
		}
		n, err := r.SyncPod(pod.Namespace, pod.Name)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// syncMountDir makes dir contain exactly the projected files, rewriting
// changed contents and pruning files whose keys are gone.
func syncMountDir(dir string, files []inject.File) (int, error) {
	changed := 0
	want := make(map[string]bool, len(files))

	for _, f := range files {
		want[f.Path] = true
		path := filepath.Join(dir, f.Path)
		current, err := os.ReadFile(path) // #nosec G304
		if err == nil && bytes.Equal(current, f.Data) {
			continue
		}
		if err != nil && !os.IsNotExist(err) {
			return changed, fmt.Errorf("failed to read mounted file: %w", err)
		}
		if err := writeMountFile(dir, f); err != nil {
			return changed, err
		}
		changed++
	}

	stale, err := staleFiles(dir, want)
	if err != nil {
		return changed, err
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return changed, fmt.Errorf("failed to remove stale file: %w", err)
		}
		changed++
	}
	return changed, nil
}

// staleFiles lists files under dir whose mount-relative path is not wanted.
func staleFiles(dir string, want map[string]bool) ([]string, error) {
	var stale []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if !want[rel] {
			stale = append(stale, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan mount directory: %w", err)
	}
	return stale, nil
}
