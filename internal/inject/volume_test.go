package inject_test

import (
	"io/fs"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/podlet/internal/inject"
	"github.com/imamik/podlet/internal/util/ptr"
)

var _ = Describe("Files", func() {
	var (
		resolver fakeResolver
		volumes  []corev1.Volume
		mount    corev1.VolumeMount
	)

	BeforeEach(func() {
		resolver = fakeResolver{
			secrets: map[string]*corev1.Secret{
				"mariadb-root-password": secretFixture("mariadb-root-password", map[string]string{
					"password": "KubernetesRocks!",
				}),
			},
			configMaps: map[string]*corev1.ConfigMap{
				"mariadb-config": configMapFixture("mariadb-config", map[string]string{
					"max_allowed_packet.cnf": "[mysqld]\nmax_allowed_packet = 64M",
					"lower_case.cnf":         "[mysqld]\nlower_case_table_names = 1",
				}),
			},
		}
		volumes = []corev1.Volume{
			{
				Name: "mariadb-config-volume",
				VolumeSource: corev1.VolumeSource{
					ConfigMap: &corev1.ConfigMapVolumeSource{
						LocalObjectReference: corev1.LocalObjectReference{Name: "mariadb-config"},
					},
				},
			},
		}
		mount = corev1.VolumeMount{
			Name:      "mariadb-config-volume",
			MountPath: "/etc/mysql/conf.d",
		}
	})

	It("materializes one file per key, named by the key", func() {
		files, err := inject.Files(mount, volumes, resolver)
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(HaveLen(2))
		Expect(files[0].Path).To(Equal("lower_case.cnf"))
		Expect(files[1].Path).To(Equal("max_allowed_packet.cnf"))
		Expect(string(files[1].Data)).To(ContainSubstring("max_allowed_packet = 64M"))
		Expect(files[0].Mode).To(Equal(fs.FileMode(0o644)))
	})

	It("projects only the selected keys when items are given", func() {
		volumes[0].ConfigMap.Items = []corev1.KeyToPath{
			{Key: "max_allowed_packet.cnf", Path: "max_packet.cnf"},
		}

		files, err := inject.Files(mount, volumes, resolver)
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(HaveLen(1))
		Expect(files[0].Path).To(Equal("max_packet.cnf"))
		Expect(string(files[0].Data)).To(ContainSubstring("max_allowed_packet = 64M"))
	})

	It("defaults the item path to the key name", func() {
		volumes[0].ConfigMap.Items = []corev1.KeyToPath{{Key: "lower_case.cnf"}}

		files, err := inject.Files(mount, volumes, resolver)
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(HaveLen(1))
		Expect(files[0].Path).To(Equal("lower_case.cnf"))
	})

	It("honors per-item and default modes", func() {
		mode := int32(0o600)
		itemMode := int32(0o400)
		volumes[0].ConfigMap.DefaultMode = &mode
		volumes[0].ConfigMap.Items = []corev1.KeyToPath{
			{Key: "lower_case.cnf"},
			{Key: "max_allowed_packet.cnf", Mode: &itemMode},
		}

		files, err := inject.Files(mount, volumes, resolver)
		Expect(err).NotTo(HaveOccurred())
		Expect(files[0].Mode).To(Equal(fs.FileMode(0o600)))
		Expect(files[1].Mode).To(Equal(fs.FileMode(0o400)))
	})

	It("materializes secret volumes with decoded contents", func() {
		volumes = append(volumes, corev1.Volume{
			Name: "root-password",
			VolumeSource: corev1.VolumeSource{
				Secret: &corev1.SecretVolumeSource{SecretName: "mariadb-root-password"},
			},
		})
		mount = corev1.VolumeMount{Name: "root-password", MountPath: "/run/secrets/mariadb"}

		files, err := inject.Files(mount, volumes, resolver)
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(Equal([]inject.File{
			{Path: "password", Data: []byte("KubernetesRocks!"), Mode: fs.FileMode(0o644)},
		}))
	})

	It("fails on a missing selected key", func() {
		volumes[0].ConfigMap.Items = []corev1.KeyToPath{{Key: "absent.cnf"}}

		_, err := inject.Files(mount, volumes, resolver)
		Expect(err).To(MatchError(ContainSubstring(`key "absent.cnf" not found`)))
	})

	It("skips missing keys on an optional volume", func() {
		volumes[0].ConfigMap.Optional = ptr.To(true)
		volumes[0].ConfigMap.Items = []corev1.KeyToPath{
			{Key: "absent.cnf"},
			{Key: "lower_case.cnf"},
		}

		files, err := inject.Files(mount, volumes, resolver)
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(HaveLen(1))
	})

	It("produces nothing for a missing optional object", func() {
		volumes[0].ConfigMap.Name = "absent"
		volumes[0].ConfigMap.Optional = ptr.To(true)

		files, err := inject.Files(mount, volumes, resolver)
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(BeEmpty())
	})

	It("rejects item paths escaping the mount point", func() {
		volumes[0].ConfigMap.Items = []corev1.KeyToPath{
			{Key: "lower_case.cnf", Path: "../outside.cnf"},
		}

		_, err := inject.Files(mount, volumes, resolver)
		Expect(err).To(MatchError(ContainSubstring("must not contain")))
	})

	It("rejects absolute item paths", func() {
		volumes[0].ConfigMap.Items = []corev1.KeyToPath{
			{Key: "lower_case.cnf", Path: "/etc/passwd"},
		}

		_, err := inject.Files(mount, volumes, resolver)
		Expect(err).To(MatchError(ContainSubstring("must be relative")))
	})

	It("fails when the mount references an undeclared volume", func() {
		mount.Name = "ghost"

		_, err := inject.Files(mount, volumes, resolver)
		Expect(err).To(MatchError(ContainSubstring(`volume "ghost" not declared`)))
	})

	It("rejects unsupported volume sources", func() {
		volumes = []corev1.Volume{{
			Name:         "scratch",
			VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}},
		}}
		mount = corev1.VolumeMount{Name: "scratch", MountPath: "/scratch"}

		_, err := inject.Files(mount, volumes, resolver)
		Expect(err).To(MatchError(ContainSubstring("only configMap and secret")))
	})
})
