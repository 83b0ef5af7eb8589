package printer

import (
	"fmt"
	"sort"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/podlet/internal/runtime"
)

// DescribeSecret renders a secret without exposing its values: each data key
// is shown with the decoded value's size only.
func DescribeSecret(secret *corev1.Secret) string {
	var b strings.Builder
	describeMeta(&b, secret.Name, secret.Namespace, secret.Labels, secret.Annotations)
	fmt.Fprintf(&b, "\nType:  %s\n", secret.Type)

	b.WriteString("\n" + heading("Data") + "\n====\n")
	if len(secret.Data) == 0 {
		b.WriteString(dim("<empty>") + "\n")
		return b.String()
	}
	for _, k := range sortedKeys(secret.Data) {
		fmt.Fprintf(&b, "%s:  %d bytes\n", k, len(secret.Data[k]))
	}
	return b.String()
}

// DescribeConfigMap renders a configmap with full values.
func DescribeConfigMap(cm *corev1.ConfigMap) string {
	var b strings.Builder
	describeMeta(&b, cm.Name, cm.Namespace, cm.Labels, cm.Annotations)

	b.WriteString("\n" + heading("Data") + "\n====\n")
	if len(cm.Data) == 0 && len(cm.BinaryData) == 0 {
		b.WriteString(dim("<empty>") + "\n")
		return b.String()
	}
	for _, k := range sortedKeys(cm.Data) {
		fmt.Fprintf(&b, "%s:\n----\n%s\n", k, strings.TrimRight(cm.Data[k], "\n"))
	}
	for _, k := range sortedKeys(cm.BinaryData) {
		fmt.Fprintf(&b, "%s:  %d bytes (binary)\n", k, len(cm.BinaryData[k]))
	}
	return b.String()
}

// DescribeDeployment renders a deployment summary.
func DescribeDeployment(dep *appsv1.Deployment) string {
	var b strings.Builder
	describeMeta(&b, dep.Name, dep.Namespace, dep.Labels, dep.Annotations)

	replicas := int32(1)
	if dep.Spec.Replicas != nil {
		replicas = *dep.Spec.Replicas
	}
	fmt.Fprintf(&b, "Replicas:     %d\n", replicas)

	b.WriteString("\n" + heading("Containers") + "\n")
	for _, c := range dep.Spec.Template.Spec.Containers {
		describeContainer(&b, c)
	}
	describeVolumes(&b, dep.Spec.Template.Spec.Volumes)
	return b.String()
}

// DescribePod renders a pod record, including its sync state.
func DescribePod(pod *corev1.Pod) string {
	var b strings.Builder
	describeMeta(&b, pod.Name, pod.Namespace, pod.Labels, pod.Annotations)

	phase := string(pod.Status.Phase)
	if phase == "" {
		phase = "Unknown"
	}
	fmt.Fprintf(&b, "Status:       %s\n", phase)
	if pod.Status.StartTime != nil {
		fmt.Fprintf(&b, "Start Time:   %s\n", pod.Status.StartTime.UTC().Format("Mon, 02 Jan 2006 15:04:05 -0700"))
	}
	lastSync := pod.Annotations[runtime.LastSyncAnnotation]
	if lastSync == "" {
		lastSync = "<never>"
	}
	fmt.Fprintf(&b, "Volume Sync:  %s\n", lastSync)

	b.WriteString("\n" + heading("Containers") + "\n")
	for _, c := range pod.Spec.Containers {
		describeContainer(&b, c)
		for _, cs := range pod.Status.ContainerStatuses {
			if cs.Name == c.Name {
				fmt.Fprintf(&b, "    Ready:          %t\n", cs.Ready)
				fmt.Fprintf(&b, "    Restart Count:  %d\n", cs.RestartCount)
			}
		}
	}
	describeVolumes(&b, pod.Spec.Volumes)
	return b.String()
}

func describeMeta(b *strings.Builder, name, namespace string, labels, annotations map[string]string) {
	fmt.Fprintf(b, "Name:         %s\n", name)
	fmt.Fprintf(b, "Namespace:    %s\n", namespace)
	fmt.Fprintf(b, "Labels:       %s\n", formatLabels(labels))
	fmt.Fprintf(b, "Annotations:  %s\n", formatLabels(annotations))
}

func describeContainer(b *strings.Builder, c corev1.Container) {
	fmt.Fprintf(b, "  %s:\n", c.Name)
	fmt.Fprintf(b, "    Image:          %s\n", c.Image)

	if len(c.EnvFrom) > 0 {
		b.WriteString("    Environment Variables from:\n")
		for _, src := range c.EnvFrom {
			switch {
			case src.SecretRef != nil:
				fmt.Fprintf(b, "      %s\tSecret%s\n", src.SecretRef.Name, envFromSuffix(src.Prefix, src.SecretRef.Optional))
			case src.ConfigMapRef != nil:
				fmt.Fprintf(b, "      %s\tConfigMap%s\n", src.ConfigMapRef.Name, envFromSuffix(src.Prefix, src.ConfigMapRef.Optional))
			}
		}
	}
	if len(c.Env) > 0 {
		b.WriteString("    Environment:\n")
		for _, ev := range c.Env {
			fmt.Fprintf(b, "      %s:  %s\n", ev.Name, envValueSource(ev))
		}
	}
	if len(c.VolumeMounts) > 0 {
		b.WriteString("    Mounts:\n")
		for _, m := range c.VolumeMounts {
			fmt.Fprintf(b, "      %s from %s\n", m.MountPath, m.Name)
		}
	}
}

func describeVolumes(b *strings.Builder, volumes []corev1.Volume) {
	if len(volumes) == 0 {
		return
	}
	b.WriteString("\n" + heading("Volumes") + "\n")
	for _, v := range volumes {
		fmt.Fprintf(b, "  %s:\n", v.Name)
		switch {
		case v.ConfigMap != nil:
			fmt.Fprintf(b, "    Type:  ConfigMap\n    Name:  %s\n", v.ConfigMap.Name)
		case v.Secret != nil:
			fmt.Fprintf(b, "    Type:  Secret\n    Name:  %s\n", v.Secret.SecretName)
		default:
			b.WriteString("    Type:  <unsupported>\n")
		}
	}
}

func envFromSuffix(prefix string, opt *bool) string {
	var parts []string
	if prefix != "" {
		parts = append(parts, fmt.Sprintf("with prefix %q", prefix))
	}
	if opt != nil && *opt {
		parts = append(parts, "Optional: true")
	}
	if len(parts) == 0 {
		return ""
	}
	return "  (" + strings.Join(parts, ", ") + ")"
}

func envValueSource(ev corev1.EnvVar) string {
	if ev.ValueFrom == nil {
		return ev.Value
	}
	switch {
	case ev.ValueFrom.SecretKeyRef != nil:
		ref := ev.ValueFrom.SecretKeyRef
		return fmt.Sprintf("<set to the key %q in secret %q>", ref.Key, ref.Name)
	case ev.ValueFrom.ConfigMapKeyRef != nil:
		ref := ev.ValueFrom.ConfigMapKeyRef
		return fmt.Sprintf("<set to the key %q in configmap %q>", ref.Key, ref.Name)
	}
	return "<unknown source>"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
