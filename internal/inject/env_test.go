package inject_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/imamik/podlet/internal/inject"
	"github.com/imamik/podlet/internal/util/ptr"
	"github.com/imamik/podlet/internal/store"
)

// fakeResolver serves objects from in-memory maps, reporting misses the way
// the store does.
type fakeResolver struct {
	secrets    map[string]*corev1.Secret
	configMaps map[string]*corev1.ConfigMap
}

func (f fakeResolver) Secret(name string) (*corev1.Secret, error) {
	if s, ok := f.secrets[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("secret %q: %w", name, store.ErrNotFound)
}

func (f fakeResolver) ConfigMap(name string) (*corev1.ConfigMap, error) {
	if cm, ok := f.configMaps[name]; ok {
		return cm, nil
	}
	return nil, fmt.Errorf("configmap %q: %w", name, store.ErrNotFound)
}

func secretFixture(name string, data map[string]string) *corev1.Secret {
	s := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Data:       map[string][]byte{},
	}
	for k, v := range data {
		s.Data[k] = []byte(v)
	}
	return s
}

func configMapFixture(name string, data map[string]string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Data:       data,
	}
}

var _ = Describe("Env", func() {
	var resolver fakeResolver

	BeforeEach(func() {
		resolver = fakeResolver{
			secrets: map[string]*corev1.Secret{
				"mariadb-root-password": secretFixture("mariadb-root-password", map[string]string{
					"password": "KubernetesRocks!",
				}),
				"mariadb-user-creds": secretFixture("mariadb-user-creds", map[string]string{
					"MYSQL_USER":     "kubeuser",
					"MYSQL_PASSWORD": "kube-still-rocks",
				}),
			},
			configMaps: map[string]*corev1.ConfigMap{
				"mariadb-env": configMapFixture("mariadb-env", map[string]string{
					"MYSQL_DATABASE": "tutorial",
				}),
			},
		}
	})

	Describe("whole-object injection", func() {
		It("produces one variable per key, named exactly as the key", func() {
			container := corev1.Container{
				Name: "mariadb",
				EnvFrom: []corev1.EnvFromSource{
					{SecretRef: &corev1.SecretEnvSource{LocalObjectReference: corev1.LocalObjectReference{Name: "mariadb-user-creds"}}},
				},
			}

			result, err := inject.Env(container, resolver)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Vars).To(Equal([]inject.EnvVar{
				{Name: "MYSQL_PASSWORD", Value: "kube-still-rocks"},
				{Name: "MYSQL_USER", Value: "kubeuser"},
			}))
			Expect(result.Skipped).To(BeEmpty())
		})

		It("applies last-source-wins when two sources define the same name", func() {
			resolver.configMaps["overrides"] = configMapFixture("overrides", map[string]string{
				"MYSQL_USER": "override-user",
			})
			container := corev1.Container{
				EnvFrom: []corev1.EnvFromSource{
					{SecretRef: &corev1.SecretEnvSource{LocalObjectReference: corev1.LocalObjectReference{Name: "mariadb-user-creds"}}},
					{ConfigMapRef: &corev1.ConfigMapEnvSource{LocalObjectReference: corev1.LocalObjectReference{Name: "overrides"}}},
				},
			}

			result, err := inject.Env(container, resolver)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Vars).To(ContainElement(inject.EnvVar{Name: "MYSQL_USER", Value: "override-user"}))
			// Position of first appearance is kept.
			Expect(result.Vars[1].Name).To(Equal("MYSQL_USER"))
		})

		It("skips keys that are not valid environment variable names", func() {
			resolver.configMaps["mariadb-config"] = configMapFixture("mariadb-config", map[string]string{
				"max_allowed_packet.cnf": "[mysqld]",
				"MYSQL_DATABASE":         "tutorial",
			})
			container := corev1.Container{
				EnvFrom: []corev1.EnvFromSource{
					{ConfigMapRef: &corev1.ConfigMapEnvSource{LocalObjectReference: corev1.LocalObjectReference{Name: "mariadb-config"}}},
				},
			}

			result, err := inject.Env(container, resolver)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Vars).To(Equal([]inject.EnvVar{{Name: "MYSQL_DATABASE", Value: "tutorial"}}))
			Expect(result.Skipped).To(Equal([]string{"max_allowed_packet.cnf"}))
		})

		It("applies the source prefix before validation", func() {
			container := corev1.Container{
				EnvFrom: []corev1.EnvFromSource{
					{
						Prefix:       "DB_",
						ConfigMapRef: &corev1.ConfigMapEnvSource{LocalObjectReference: corev1.LocalObjectReference{Name: "mariadb-env"}},
					},
				},
			}

			result, err := inject.Env(container, resolver)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Vars).To(Equal([]inject.EnvVar{{Name: "DB_MYSQL_DATABASE", Value: "tutorial"}}))
		})

		It("fails on a missing required source", func() {
			container := corev1.Container{
				EnvFrom: []corev1.EnvFromSource{
					{SecretRef: &corev1.SecretEnvSource{LocalObjectReference: corev1.LocalObjectReference{Name: "absent"}}},
				},
			}

			_, err := inject.Env(container, resolver)
			Expect(err).To(HaveOccurred())
			Expect(store.IsNotFound(err)).To(BeTrue())
		})

		It("expands a missing optional source to nothing", func() {
			container := corev1.Container{
				EnvFrom: []corev1.EnvFromSource{
					{SecretRef: &corev1.SecretEnvSource{
						LocalObjectReference: corev1.LocalObjectReference{Name: "absent"},
						Optional:             ptr.To(true),
					}},
				},
			}

			result, err := inject.Env(container, resolver)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Vars).To(BeEmpty())
		})
	})

	Describe("single-key injection", func() {
		It("produces exactly one variable named by the caller", func() {
			container := corev1.Container{
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
			}

			result, err := inject.Env(container, resolver)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Vars).To(Equal([]inject.EnvVar{
				{Name: "MYSQL_ROOT_PASSWORD", Value: "KubernetesRocks!"},
			}))
		})

		It("resolves configmap key references", func() {
			container := corev1.Container{
				Env: []corev1.EnvVar{
					{
						Name: "DATABASE",
						ValueFrom: &corev1.EnvVarSource{
							ConfigMapKeyRef: &corev1.ConfigMapKeySelector{
								LocalObjectReference: corev1.LocalObjectReference{Name: "mariadb-env"},
								Key:                  "MYSQL_DATABASE",
							},
						},
					},
				},
			}

			result, err := inject.Env(container, resolver)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Vars).To(Equal([]inject.EnvVar{{Name: "DATABASE", Value: "tutorial"}}))
		})

		It("fails when the referenced key is missing", func() {
			container := corev1.Container{
				Env: []corev1.EnvVar{
					{
						Name: "MYSQL_ROOT_PASSWORD",
						ValueFrom: &corev1.EnvVarSource{
							SecretKeyRef: &corev1.SecretKeySelector{
								LocalObjectReference: corev1.LocalObjectReference{Name: "mariadb-root-password"},
								Key:                  "passphrase",
							},
						},
					},
				},
			}

			_, err := inject.Env(container, resolver)
			Expect(err).To(MatchError(ContainSubstring(`key "passphrase" not found`)))
		})

		It("omits an optional variable whose key is missing", func() {
			container := corev1.Container{
				Env: []corev1.EnvVar{
					{
						Name: "MAYBE",
						ValueFrom: &corev1.EnvVarSource{
							SecretKeyRef: &corev1.SecretKeySelector{
								LocalObjectReference: corev1.LocalObjectReference{Name: "mariadb-root-password"},
								Key:                  "passphrase",
								Optional:             ptr.To(true),
							},
						},
					},
				},
			}

			result, err := inject.Env(container, resolver)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Vars).To(BeEmpty())
		})
	})

	Describe("precedence", func() {
		It("lets explicit env entries win over envFrom", func() {
			container := corev1.Container{
				EnvFrom: []corev1.EnvFromSource{
					{SecretRef: &corev1.SecretEnvSource{LocalObjectReference: corev1.LocalObjectReference{Name: "mariadb-user-creds"}}},
				},
				Env: []corev1.EnvVar{
					{Name: "MYSQL_USER", Value: "explicit-user"},
				},
			}

			result, err := inject.Env(container, resolver)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Vars).To(ContainElement(inject.EnvVar{Name: "MYSQL_USER", Value: "explicit-user"}))
			Expect(result.Vars).To(HaveLen(2))
		})

		It("keeps plain value entries as given", func() {
			container := corev1.Container{
				Env: []corev1.EnvVar{{Name: "TZ", Value: "UTC"}},
			}

			result, err := inject.Env(container, resolver)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Vars).To(Equal([]inject.EnvVar{{Name: "TZ", Value: "UTC"}}))
		})
	})
})
