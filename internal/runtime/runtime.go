// Package runtime manages pod sandboxes: local directories standing in for
// running containers, holding the environment and volume files that were
// injected from the object store.
//
// Injection copies values. A sandbox reflects the store as it was when the
// pod started; later edits become visible only through Restart (environment
// and files) or Sync (volume files only), mirroring the restart and periodic
// volume re-synchronization boundaries of the system being modeled.
package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/imamik/podlet/internal/store"
)

// LastSyncAnnotation records when a pod's volume files were last
// re-synchronized from the store.
const LastSyncAnnotation = "podlet.dev/last-volume-sync"

// DeploymentLabel links a pod record back to the deployment it was started
// from.
const DeploymentLabel = "podlet.dev/deployment"

// Runtime starts, restarts, and synchronizes pod sandboxes.
type Runtime struct {
	store *store.Store
	log   logr.Logger
	now   func() time.Time
}

// New returns a runtime backed by the given store.
func New(st *store.Store, log logr.Logger) *Runtime {
	return &Runtime{store: st, log: log, now: time.Now}
}

// StartDeployment instantiates the deployment's pods and materializes their
// sandboxes from the current store contents. It returns the started pod
// names. A pod that is already running must be restarted instead.
func (r *Runtime) StartDeployment(ctx context.Context, namespace, name string) ([]string, error) {
	namespace = store.NamespaceOrDefault(namespace)
	dep, err := r.store.GetDeployment(namespace, name)
	if err != nil {
		return nil, err
	}

	replicas := int32(1)
	if dep.Spec.Replicas != nil {
		replicas = *dep.Spec.Replicas
	}

	var started []string
	for i := int32(0); i < replicas; i++ {
		if err := ctx.Err(); err != nil {
			return started, err
		}
		podName := fmt.Sprintf("%s-%d", name, i)

		if existing, err := r.store.GetPod(namespace, podName); err == nil && existing.Status.Phase == corev1.PodRunning {
			return started, fmt.Errorf("pod %q is already running; use restart to pick up changes", namespace+"/"+podName)
		}

		pod := podFromTemplate(dep, namespace, podName)
		if err := r.startPod(pod); err != nil {
			return started, err
		}
		started = append(started, podName)
	}
	return started, nil
}

// RestartPod tears the sandbox down and materializes it again from the
// current store contents, bumping each container's restart count.
func (r *Runtime) RestartPod(namespace, name string) error {
	namespace = store.NamespaceOrDefault(namespace)
	pod, err := r.store.GetPod(namespace, name)
	if err != nil {
		return err
	}

	if err := r.materialize(pod); err != nil {
		return fmt.Errorf("failed to restart pod %q: %w", namespace+"/"+name, err)
	}

	now := metav1.NewTime(r.now())
	pod.Status.StartTime = &now
	for i := range pod.Status.ContainerStatuses {
		pod.Status.ContainerStatuses[i].RestartCount++
	}
	delete(pod.Annotations, LastSyncAnnotation)
	if _, err := r.store.SavePod(pod); err != nil {
		return err
	}

	r.log.Info("restarted pod", "namespace", namespace, "pod", name)
	return nil
}

// RemovePod deletes a pod's sandbox and its store record.
func (r *Runtime) RemovePod(namespace, name string) error {
	namespace = store.NamespaceOrDefault(namespace)
	if _, err := r.store.GetPod(namespace, name); err != nil {
		return err
	}
	if err := removeSandbox(r.store, namespace, name); err != nil {
		return err
	}
	return r.store.DeletePod(namespace, name)
}

// startPod materializes a new sandbox and records the pod as running.
func (r *Runtime) startPod(pod *corev1.Pod) error {
	if err := r.materialize(pod); err != nil {
		return fmt.Errorf("failed to start pod %q: %w", pod.Namespace+"/"+pod.Name, err)
	}

	now := metav1.NewTime(r.now())
	pod.Status.Phase = corev1.PodRunning
	pod.Status.StartTime = &now
	pod.Status.ContainerStatuses = pod.Status.ContainerStatuses[:0]
	for _, c := range pod.Spec.Containers {
		pod.Status.ContainerStatuses = append(pod.Status.ContainerStatuses, corev1.ContainerStatus{
			Name:  c.Name,
			Ready: true,
			State: corev1.ContainerState{
				Running: &corev1.ContainerStateRunning{StartedAt: now},
			},
		})
	}

	if _, err := r.store.SavePod(pod); err != nil {
		return err
	}

	r.log.Info("started pod", "namespace", pod.Namespace, "pod", pod.Name)
	return nil
}

// podFromTemplate builds the pod record for one deployment replica. The pod
// spec is a snapshot of the template; the sandbox is built from it even if
// the deployment is edited later.
func podFromTemplate(dep *appsv1.Deployment, namespace, podName string) *corev1.Pod {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:        podName,
			Namespace:   namespace,
			Labels:      map[string]string{},
			Annotations: map[string]string{},
		},
		Spec: *dep.Spec.Template.Spec.DeepCopy(),
	}
	for k, v := range dep.Spec.Template.Labels {
		pod.Labels[k] = v
	}
	pod.Labels[DeploymentLabel] = dep.Name
	return pod
}
