// Package printer renders stored objects for the CLI: fixed-width tables,
// YAML/JSON dumps, jsonpath-filtered values, and kubectl-shaped describe
// output.
package printer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/duration"
	"k8s.io/client-go/util/jsonpath"
	"sigs.k8s.io/yaml"
)

// Object renders a single object as YAML or JSON.
func Object(obj any, format string) (string, error) {
	switch format {
	case "yaml":
		data, err := yaml.Marshal(obj)
		if err != nil {
			return "", fmt.Errorf("failed to marshal object: %w", err)
		}
		return string(data), nil
	case "json":
		data, err := json.MarshalIndent(obj, "", "    ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal object: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}

// jsonPathRelaxed accepts the forms users actually type: a bare field path,
// with or without a leading dot, or a fully braced template.
var jsonPathRelaxed = regexp.MustCompile(`^\{\.?([^{}]+)\}$|^\.?([^{}]+)$`)

// JSONPath evaluates a jsonpath expression against an object, accepting the
// same relaxed expression forms kubectl does.
func JSONPath(obj any, expr string) (string, error) {
	tmpl, err := relaxedJSONPathExpression(expr)
	if err != nil {
		return "", err
	}

	jp := jsonpath.New("get")
	if err := jp.Parse(tmpl); err != nil {
		return "", fmt.Errorf("failed to parse jsonpath %q: %w", expr, err)
	}

	// Evaluate against the object's generic JSON form so field names match
	// the wire representation.
	raw, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("failed to marshal object: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("failed to unmarshal object: %w", err)
	}

	var buf bytes.Buffer
	if err := jp.Execute(&buf, generic); err != nil {
		return "", fmt.Errorf("failed to evaluate jsonpath %q: %w", expr, err)
	}
	return buf.String(), nil
}

func relaxedJSONPathExpression(expr string) (string, error) {
	if expr == "" {
		return "", fmt.Errorf("jsonpath expression must not be empty")
	}
	m := jsonPathRelaxed.FindStringSubmatch(expr)
	if m == nil {
		return "", fmt.Errorf("unsupported jsonpath expression %q", expr)
	}
	field := m[1]
	if field == "" {
		field = m[2]
	}
	return "{." + field + "}", nil
}

// Age renders how long ago t was, in the compact form used in tables.
func Age(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "<unknown>"
	}
	return duration.HumanDuration(now.Sub(t))
}

func table(render func(w *tabwriter.Writer)) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 8, 3, ' ', 0)
	render(w)
	w.Flush()
	return buf.String()
}

// SecretTable renders the get-secrets listing.
func SecretTable(secrets []corev1.Secret, now time.Time) string {
	return table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "NAME\tTYPE\tDATA\tAGE")
		for _, s := range secrets {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.Name, s.Type, len(s.Data), Age(s.CreationTimestamp.Time, now))
		}
	})
}

// ConfigMapTable renders the get-configmaps listing.
func ConfigMapTable(cms []corev1.ConfigMap, now time.Time) string {
	return table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "NAME\tDATA\tAGE")
		for _, cm := range cms {
			fmt.Fprintf(w, "%s\t%d\t%s\n", cm.Name, len(cm.Data)+len(cm.BinaryData), Age(cm.CreationTimestamp.Time, now))
		}
	})
}

// DeploymentTable renders the get-deployments listing.
func DeploymentTable(deps []appsv1.Deployment, now time.Time) string {
	return table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "NAME\tREPLICAS\tAGE")
		for _, d := range deps {
			replicas := int32(1)
			if d.Spec.Replicas != nil {
				replicas = *d.Spec.Replicas
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", d.Name, replicas, Age(d.CreationTimestamp.Time, now))
		}
	})
}

// PodTable renders the get-pods listing.
func PodTable(pods []corev1.Pod, now time.Time) string {
	return table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "NAME\tREADY\tSTATUS\tRESTARTS\tAGE")
		for _, p := range pods {
			ready := 0
			restarts := int32(0)
			for _, cs := range p.Status.ContainerStatuses {
				if cs.Ready {
					ready++
				}
				restarts += cs.RestartCount
			}
			age := "<unknown>"
			if p.Status.StartTime != nil {
				age = Age(p.Status.StartTime.Time, now)
			}
			phase := string(p.Status.Phase)
			if phase == "" {
				phase = "Unknown"
			}
			fmt.Fprintf(w, "%s\t%d/%d\t%s\t%d\t%s\n", p.Name, ready, len(p.Spec.Containers), phase, restarts, age)
		}
	})
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return "<none>"
	}
	pairs := make([]string, 0, len(labels))
	for k, v := range labels {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ", ")
}
