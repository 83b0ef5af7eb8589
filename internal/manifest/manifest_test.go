package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multiDoc = `
apiVersion: v1
kind: Secret
metadata:
  name: mariadb-root-password
type: Opaque
data:
  password: S3ViZXJuZXRlc1JvY2tzIQ==
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: mariadb-config
data:
  max_allowed_packet.cnf: |
    [mysqld]
    max_allowed_packet = 64M
---
apiVersion: apps/v1
kind: Deployment
metadata:
  name: mariadb-deployment
spec:
  replicas: 1
  template:
    spec:
      containers:
        - name: mariadb
          image: docker.io/mariadb:10.5
`

func TestDecode_MultiDocument(t *testing.T) {
	objects, err := Decode(strings.NewReader(multiDoc))
	require.NoError(t, err)
	require.Len(t, objects, 3)

	require.Equal(t, "Secret", objects[0].Kind)
	assert.Equal(t, "mariadb-root-password", objects[0].Name())
	assert.Equal(t, []byte("KubernetesRocks!"), objects[0].Secret.Data["password"])

	require.Equal(t, "ConfigMap", objects[1].Kind)
	assert.Contains(t, objects[1].ConfigMap.Data["max_allowed_packet.cnf"], "max_allowed_packet = 64M")

	require.Equal(t, "Deployment", objects[2].Kind)
	require.Len(t, objects[2].Deployment.Spec.Template.Spec.Containers, 1)
	assert.Equal(t, "mariadb", objects[2].Deployment.Spec.Template.Spec.Containers[0].Name)
}

func TestDecode_SkipsEmptyDocuments(t *testing.T) {
	objects, err := Decode(strings.NewReader("---\n---\napiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: only\n"))
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "only", objects[0].Name())
}

func TestDecode_JSONDocument(t *testing.T) {
	objects, err := Decode(strings.NewReader(`{"apiVersion":"v1","kind":"Secret","metadata":{"name":"j"},"stringData":{"password":"KubernetesRocks!"}}`))
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "KubernetesRocks!", objects[0].Secret.StringData["password"])
}

func TestDecode_UnsupportedKind(t *testing.T) {
	_, err := Decode(strings.NewReader("apiVersion: v1\nkind: Service\nmetadata:\n  name: svc\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported kind")
}

func TestDecode_MissingKind(t *testing.T) {
	_, err := Decode(strings.NewReader("metadata:\n  name: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no kind")
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no objects")
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "objects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(multiDoc), 0o600))

	objects, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Len(t, objects, 3)
}

func TestDecodeFile_Missing(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open manifest")
}
