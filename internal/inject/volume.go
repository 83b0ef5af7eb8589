package inject

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/podlet/internal/store"
)

// defaultFileMode matches the orchestrator's default mode for projected
// configuration files.
const defaultFileMode = fs.FileMode(0o644)

// File is one file to materialize under a volume mount point.
type File struct {
	// Path is relative to the mount point. It defaults to the source key
	// name and may be redirected with items[].path.
	Path string
	Data []byte
	Mode fs.FileMode
}

// Files resolves the set of files a volume mount projects into a container.
// Exactly one file is produced per selected key; contents equal the decoded
// stored value. The result is sorted by path.
func Files(mount corev1.VolumeMount, volumes []corev1.Volume, r Resolver) ([]File, error) {
	volume, err := findVolume(mount.Name, volumes)
	if err != nil {
		return nil, err
	}

	var files []File
	switch {
	case volume.ConfigMap != nil:
		files, err = configMapFiles(volume.ConfigMap, r)
	case volume.Secret != nil:
		files, err = secretFiles(volume.Secret, r)
	default:
		err = fmt.Errorf("volume %q: only configMap and secret volume sources are supported", volume.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("mount %q: %w", mount.MountPath, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func findVolume(name string, volumes []corev1.Volume) (*corev1.Volume, error) {
	for i := range volumes {
		if volumes[i].Name == name {
			return &volumes[i], nil
		}
	}
	return nil, fmt.Errorf("volume %q not declared in pod spec", name)
}

func configMapFiles(src *corev1.ConfigMapVolumeSource, r Resolver) ([]File, error) {
	cm, err := r.ConfigMap(src.Name)
	if err != nil {
		if store.IsNotFound(err) && optional(src.Optional) {
			return nil, nil
		}
		return nil, err
	}

	data := make(map[string][]byte, len(cm.Data)+len(cm.BinaryData))
	for k, v := range cm.Data {
		data[k] = []byte(v)
	}
	for k, v := range cm.BinaryData {
		data[k] = v
	}
	return projectKeys(data, src.Items, src.DefaultMode, optional(src.Optional), "configmap", src.Name)
}

func secretFiles(src *corev1.SecretVolumeSource, r Resolver) ([]File, error) {
	secret, err := r.Secret(src.SecretName)
	if err != nil {
		if store.IsNotFound(err) && optional(src.Optional) {
			return nil, nil
		}
		return nil, err
	}
	return projectKeys(secret.Data, src.Items, src.DefaultMode, optional(src.Optional), "secret", src.SecretName)
}

// projectKeys maps stored keys to files. With no items, every key becomes a
// file named by the key. With items, only the selected keys are projected,
// each at its explicit path (default: the key name).
func projectKeys(data map[string][]byte, items []corev1.KeyToPath, defaultMode *int32, opt bool, kind, name string) ([]File, error) {
	mode := defaultFileMode
	if defaultMode != nil {
		mode = fs.FileMode(*defaultMode) // #nosec G115
	}

	if len(items) == 0 {
		files := make([]File, 0, len(data))
		for k, v := range data {
			files = append(files, File{Path: k, Data: v, Mode: mode})
		}
		return files, nil
	}

	files := make([]File, 0, len(items))
	for _, item := range items {
		value, ok := data[item.Key]
		if !ok {
			if opt {
				continue
			}
			return nil, fmt.Errorf("key %q not found in %s %q", item.Key, kind, name)
		}

		target := item.Path
		if target == "" {
			target = item.Key
		}
		if err := validateItemPath(target); err != nil {
			return nil, err
		}

		itemMode := mode
		if item.Mode != nil {
			itemMode = fs.FileMode(*item.Mode) // #nosec G115
		}
		files = append(files, File{Path: target, Data: value, Mode: itemMode})
	}
	return files, nil
}

// validateItemPath rejects paths that would escape the mount point.
func validateItemPath(p string) error {
	if path.IsAbs(p) {
		return fmt.Errorf("item path %q must be relative", p)
	}
	if p == ".." || strings.HasPrefix(p, "../") || strings.Contains(p, "/../") || strings.HasSuffix(p, "/..") {
		return fmt.Errorf("item path %q must not contain '..'", p)
	}
	return nil
}
