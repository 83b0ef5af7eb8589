package runtime

import (
	"context"
	"os"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/imamik/podlet/internal/store"
	"github.com/imamik/podlet/internal/util/ptr"
)

func newTestRuntime(t *testing.T) (*Runtime, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	return New(st, logr.Discard()), st
}

// seedMariaDB stores the tutorial's secret, configmap, and deployment: a
// single-key env injection, a whole-object env injection, and a configmap
// volume.
func seedMariaDB(t *testing.T, st *store.Store) {
	t.Helper()

	_, err := st.CreateSecret(&corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "mariadb-root-password"},
		Data:       map[string][]byte{"password": []byte("KubernetesRocks!")},
	})
	require.NoError(t, err)

	_, err = st.CreateSecret(&corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "mariadb-user-creds"},
		Data: map[string][]byte{
			"MYSQL_USER":     []byte("kubeuser"),
			"MYSQL_PASSWORD": []byte("kube-still-rocks"),
		},
	})
	require.NoError(t, err)

	_, err = st.CreateConfigMap(&corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "mariadb-config"},
		Data: map[string]string{
			"max_allowed_packet.cnf": "[mysqld]\nmax_allowed_packet = 64M",
		},
	})
	require.NoError(t, err)

	_, err = st.CreateDeployment(mariadbDeployment())
	require.NoError(t, err)
}

func mariadbDeployment() *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "mariadb-deployment"},
		Spec: appsv1.DeploymentSpec{
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: map[string]string{"app": "mariadb"}},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:  "mariadb",
							Image: "docker.io/mariadb:10.5",
							Env: []corev1.EnvVar{
								{
									Name: "MYSQL_ROOT_PASSWORD",
									ValueFrom: &corev1.EnvVarSource{
										SecretKeyRef: &corev1.SecretKeySelector{
											LocalObjectReference: corev1.LocalObjectReference{Name: "mariadb-root-password"},
											Key:                  "password",
										},
									},
								},
							},
							EnvFrom: []corev1.EnvFromSource{
								{SecretRef: &corev1.SecretEnvSource{LocalObjectReference: corev1.LocalObjectReference{Name: "mariadb-user-creds"}}},
							},
							VolumeMounts: []corev1.VolumeMount{
								{Name: "mariadb-config-volume", MountPath: "/etc/mysql/conf.d"},
							},
						},
					},
					Volumes: []corev1.Volume{
						{
							Name: "mariadb-config-volume",
							VolumeSource: corev1.VolumeSource{
								ConfigMap: &corev1.ConfigMapVolumeSource{
									LocalObjectReference: corev1.LocalObjectReference{Name: "mariadb-config"},
								},
							},
						},
					},
				},
			},
		},
	}
}

func readEnv(t *testing.T, st *store.Store, pod string) string {
	t.Helper()
	data, err := os.ReadFile(EnvFile(st, "default", pod, "mariadb"))
	require.NoError(t, err)
	return string(data)
}

func readMounted(t *testing.T, st *store.Store, pod, file string) string {
	t.Helper()
	dir := MountDir(st, "default", pod, "mariadb", "/etc/mysql/conf.d")
	data, err := os.ReadFile(dir + "/" + file)
	require.NoError(t, err)
	return string(data)
}

func TestStartDeployment_MaterializesSandbox(t *testing.T) {
	r, st := newTestRuntime(t)
	seedMariaDB(t, st)

	started, err := r.StartDeployment(context.Background(), "default", "mariadb-deployment")
	require.NoError(t, err)
	require.Equal(t, []string{"mariadb-deployment-0"}, started)

	env := readEnv(t, st, "mariadb-deployment-0")
	assert.Contains(t, env, "MYSQL_USER=kubeuser\n")
	assert.Contains(t, env, "MYSQL_PASSWORD=kube-still-rocks\n")
	assert.Contains(t, env, "MYSQL_ROOT_PASSWORD=KubernetesRocks!\n")

	cnf := readMounted(t, st, "mariadb-deployment-0", "max_allowed_packet.cnf")
	assert.Equal(t, "[mysqld]\nmax_allowed_packet = 64M", cnf)

	pod, err := st.GetPod("default", "mariadb-deployment-0")
	require.NoError(t, err)
	assert.Equal(t, corev1.PodRunning, pod.Status.Phase)
	assert.Equal(t, "mariadb-deployment", pod.Labels[DeploymentLabel])
	require.Len(t, pod.Status.ContainerStatuses, 1)
	assert.True(t, pod.Status.ContainerStatuses[0].Ready)
	assert.Zero(t, pod.Status.ContainerStatuses[0].RestartCount)
}

func TestStartDeployment_Replicas(t *testing.T) {
	r, st := newTestRuntime(t)
	seedMariaDB(t, st)

	dep, err := st.GetDeployment("default", "mariadb-deployment")
	require.NoError(t, err)
	dep.Spec.Replicas = ptr.To(int32(3))
	_, err = st.UpdateDeployment(dep)
	require.NoError(t, err)

	started, err := r.StartDeployment(context.Background(), "default", "mariadb-deployment")
	require.NoError(t, err)
	assert.Equal(t, []string{"mariadb-deployment-0", "mariadb-deployment-1", "mariadb-deployment-2"}, started)
}

func TestStartDeployment_AlreadyRunning(t *testing.T) {
	r, st := newTestRuntime(t)
	seedMariaDB(t, st)

	_, err := r.StartDeployment(context.Background(), "default", "mariadb-deployment")
	require.NoError(t, err)

	_, err = r.StartDeployment(context.Background(), "default", "mariadb-deployment")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestStartDeployment_MissingSecretFails(t *testing.T) {
	r, st := newTestRuntime(t)
	_, err := st.CreateDeployment(mariadbDeployment())
	require.NoError(t, err)

	_, err = r.StartDeployment(context.Background(), "default", "mariadb-deployment")
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}

func TestEditDoesNotPropagateUntilRestart(t *testing.T) {
	r, st := newTestRuntime(t)
	seedMariaDB(t, st)

	_, err := r.StartDeployment(context.Background(), "default", "mariadb-deployment")
	require.NoError(t, err)

	// Rotate the root password and the configmap contents in the store.
	secret, err := st.GetSecret("default", "mariadb-root-password")
	require.NoError(t, err)
	secret.Data["password"] = []byte("KubernetesStillRocks")
	_, err = st.UpdateSecret(secret)
	require.NoError(t, err)

	cm, err := st.GetConfigMap("default", "mariadb-config")
	require.NoError(t, err)
	cm.Data["max_allowed_packet.cnf"] = "[mysqld]\nmax_allowed_packet = 32M"
	_, err = st.UpdateConfigMap(cm)
	require.NoError(t, err)

	// The running sandbox still holds the start-time copies.
	assert.Contains(t, readEnv(t, st, "mariadb-deployment-0"), "MYSQL_ROOT_PASSWORD=KubernetesRocks!\n")
	assert.Contains(t, readMounted(t, st, "mariadb-deployment-0", "max_allowed_packet.cnf"), "64M")

	require.NoError(t, r.RestartPod("default", "mariadb-deployment-0"))

	assert.Contains(t, readEnv(t, st, "mariadb-deployment-0"), "MYSQL_ROOT_PASSWORD=KubernetesStillRocks\n")
	assert.Contains(t, readMounted(t, st, "mariadb-deployment-0", "max_allowed_packet.cnf"), "32M")

	pod, err := st.GetPod("default", "mariadb-deployment-0")
	require.NoError(t, err)
	assert.Equal(t, int32(1), pod.Status.ContainerStatuses[0].RestartCount)
}

func TestSyncPod_RefreshesVolumeFilesOnly(t *testing.T) {
	r, st := newTestRuntime(t)
	seedMariaDB(t, st)

	_, err := r.StartDeployment(context.Background(), "default", "mariadb-deployment")
	require.NoError(t, err)

	secret, err := st.GetSecret("default", "mariadb-root-password")
	require.NoError(t, err)
	secret.Data["password"] = []byte("rotated")
	_, err = st.UpdateSecret(secret)
	require.NoError(t, err)

	cm, err := st.GetConfigMap("default", "mariadb-config")
	require.NoError(t, err)
	cm.Data["max_allowed_packet.cnf"] = "[mysqld]\nmax_allowed_packet = 128M"
	cm.Data["extra.cnf"] = "[mysqld]\nskip-name-resolve"
	_, err = st.UpdateConfigMap(cm)
	require.NoError(t, err)

	changed, err := r.SyncPod("default", "mariadb-deployment-0")
	require.NoError(t, err)
	assert.Equal(t, 2, changed, "one rewritten file, one new file")

	// Volume files observe the edit, the environment does not.
	assert.Contains(t, readMounted(t, st, "mariadb-deployment-0", "max_allowed_packet.cnf"), "128M")
	assert.Contains(t, readMounted(t, st, "mariadb-deployment-0", "extra.cnf"), "skip-name-resolve")
	assert.Contains(t, readEnv(t, st, "mariadb-deployment-0"), "MYSQL_ROOT_PASSWORD=KubernetesRocks!\n")

	pod, err := st.GetPod("default", "mariadb-deployment-0")
	require.NoError(t, err)
	assert.NotEmpty(t, pod.Annotations[LastSyncAnnotation])
}

func TestSyncPod_PrunesRemovedKeys(t *testing.T) {
	r, st := newTestRuntime(t)
	seedMariaDB(t, st)

	_, err := r.StartDeployment(context.Background(), "default", "mariadb-deployment")
	require.NoError(t, err)

	cm, err := st.GetConfigMap("default", "mariadb-config")
	require.NoError(t, err)
	cm.Data = map[string]string{}
	_, err = st.UpdateConfigMap(cm)
	require.NoError(t, err)

	changed, err := r.SyncPod("default", "mariadb-deployment-0")
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	dir := MountDir(st, "default", "mariadb-deployment-0", "mariadb", "/etc/mysql/conf.d")
	_, err = os.Stat(dir + "/max_allowed_packet.cnf")
	assert.True(t, os.IsNotExist(err))
}

func TestSyncPod_NoChangesIsIdempotent(t *testing.T) {
	r, st := newTestRuntime(t)
	seedMariaDB(t, st)

	_, err := r.StartDeployment(context.Background(), "default", "mariadb-deployment")
	require.NoError(t, err)

	changed, err := r.SyncPod("default", "mariadb-deployment-0")
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestSyncAll(t *testing.T) {
	r, st := newTestRuntime(t)
	seedMariaDB(t, st)

	_, err := r.StartDeployment(context.Background(), "default", "mariadb-deployment")
	require.NoError(t, err)

	cm, err := st.GetConfigMap("default", "mariadb-config")
	require.NoError(t, err)
	cm.Data["max_allowed_packet.cnf"] = "[mysqld]\nmax_allowed_packet = 16M"
	_, err = st.UpdateConfigMap(cm)
	require.NoError(t, err)

	total, err := r.SyncAll(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestRemovePod(t *testing.T) {
	r, st := newTestRuntime(t)
	seedMariaDB(t, st)

	_, err := r.StartDeployment(context.Background(), "default", "mariadb-deployment")
	require.NoError(t, err)

	require.NoError(t, r.RemovePod("default", "mariadb-deployment-0"))

	_, err = st.GetPod("default", "mariadb-deployment-0")
	assert.True(t, store.IsNotFound(err))
	_, err = os.Stat(SandboxDir(st, "default", "mariadb-deployment-0"))
	assert.True(t, os.IsNotExist(err))

	assert.True(t, store.IsNotFound(r.RemovePod("default", "mariadb-deployment-0")))
}
