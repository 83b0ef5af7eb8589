package store

import (
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
)

// CreateDeployment stores a new deployment. The stored copy is returned.
func (s *Store) CreateDeployment(dep *appsv1.Deployment) (*appsv1.Deployment, error) {
	obj := dep.DeepCopy()
	obj.TypeMeta.APIVersion = "apps/v1"
	obj.TypeMeta.Kind = "Deployment"
	obj.Namespace = NamespaceOrDefault(obj.Namespace)
	if err := create(s, obj.Namespace, resourceDeployments, &obj.ObjectMeta, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// UpdateDeployment atomically replaces a stored deployment.
func (s *Store) UpdateDeployment(dep *appsv1.Deployment) (*appsv1.Deployment, error) {
	obj := dep.DeepCopy()
	obj.TypeMeta.APIVersion = "apps/v1"
	obj.TypeMeta.Kind = "Deployment"
	obj.Namespace = NamespaceOrDefault(obj.Namespace)
	current, err := s.GetDeployment(obj.Namespace, obj.Name)
	if err != nil {
		return nil, err
	}
	if err := update(s, obj.Namespace, resourceDeployments, &obj.ObjectMeta, current.ObjectMeta, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// GetDeployment loads a deployment by namespace and name.
func (s *Store) GetDeployment(namespace, name string) (*appsv1.Deployment, error) {
	var dep appsv1.Deployment
	namespace = NamespaceOrDefault(namespace)
	if err := s.readInto(s.objectPath(namespace, resourceDeployments, name), &dep); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("deployment %q: %w", namespace+"/"+name, ErrNotFound)
		}
		return nil, err
	}
	return &dep, nil
}

// ListDeployments returns all deployments in a namespace, sorted by name.
func (s *Store) ListDeployments(namespace string) ([]appsv1.Deployment, error) {
	namespace = NamespaceOrDefault(namespace)
	names, err := s.listNames(namespace, resourceDeployments)
	if err != nil {
		return nil, err
	}
	deps := make([]appsv1.Deployment, 0, len(names))
	for _, name := range names {
		dep, err := s.GetDeployment(namespace, name)
		if err != nil {
			return nil, err
		}
		deps = append(deps, *dep)
	}
	return deps, nil
}

// DeleteDeployment removes a deployment from the store.
func (s *Store) DeleteDeployment(namespace, name string) error {
	return s.delete(NamespaceOrDefault(namespace), resourceDeployments, name)
}

// SavePod creates or replaces a pod record. Pods are runtime bookkeeping, so
// unlike user-facing objects they are written without conflict detection.
func (s *Store) SavePod(pod *corev1.Pod) (*corev1.Pod, error) {
	obj := pod.DeepCopy()
	obj.TypeMeta.APIVersion = "v1"
	obj.TypeMeta.Kind = "Pod"
	obj.Namespace = NamespaceOrDefault(obj.Namespace)

	current, err := s.GetPod(obj.Namespace, obj.Name)
	switch {
	case err == nil:
		obj.ResourceVersion = current.ResourceVersion
		if err := update(s, obj.Namespace, resourcePods, &obj.ObjectMeta, current.ObjectMeta, obj); err != nil {
			return nil, err
		}
	case IsNotFound(err):
		if err := create(s, obj.Namespace, resourcePods, &obj.ObjectMeta, obj); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return obj, nil
}

// GetPod loads a pod record by namespace and name.
func (s *Store) GetPod(namespace, name string) (*corev1.Pod, error) {
	var pod corev1.Pod
	namespace = NamespaceOrDefault(namespace)
	if err := s.readInto(s.objectPath(namespace, resourcePods, name), &pod); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("pod %q: %w", namespace+"/"+name, ErrNotFound)
		}
		return nil, err
	}
	return &pod, nil
}

// ListPods returns all pod records in a namespace, sorted by name.
func (s *Store) ListPods(namespace string) ([]corev1.Pod, error) {
	namespace = NamespaceOrDefault(namespace)
	names, err := s.listNames(namespace, resourcePods)
	if err != nil {
		return nil, err
	}
	pods := make([]corev1.Pod, 0, len(names))
	for _, name := range names {
		pod, err := s.GetPod(namespace, name)
		if err != nil {
			return nil, err
		}
		pods = append(pods, *pod)
	}
	return pods, nil
}

// DeletePod removes a pod record from the store.
func (s *Store) DeletePod(namespace, name string) error {
	return s.delete(NamespaceOrDefault(namespace), resourcePods, name)
}
