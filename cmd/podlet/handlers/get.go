package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/podlet/internal/printer"
	"github.com/imamik/podlet/internal/runtime"
	"github.com/imamik/podlet/internal/store"
	"github.com/imamik/podlet/internal/ui/tui"
)

// runProgram runs a Bubble Tea program (for testing injection).
var runProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Get prints objects of a kind, either as a table or in the requested
// output format. With watch set it opens the live pod dashboard instead.
func Get(ctx context.Context, opts Options, kindArg, name, output string, watch bool) error {
	kind, err := resolveKind(kindArg)
	if err != nil {
		return err
	}

	cfg, st, ns, err := environment(opts)
	if err != nil {
		return err
	}

	if watch {
		if kind != "Pod" {
			return fmt.Errorf("--watch is only supported for pods")
		}
		return watchPods(ctx, cfg.SyncEvery(), st, ns)
	}

	if name != "" && output != "" {
		return printObject(st, kind, ns, name, output)
	}
	return printTable(st, kind, ns, name)
}

func printObject(st *store.Store, kind, ns, name, output string) error {
	obj, err := fetchObject(st, kind, ns, name)
	if err != nil {
		return err
	}

	var rendered string
	if expr, ok := strings.CutPrefix(output, "jsonpath="); ok {
		rendered, err = printer.JSONPath(obj, expr)
	} else {
		rendered, err = printer.Object(obj, output)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, strings.TrimRight(rendered, "\n"))
	return nil
}

func fetchObject(st *store.Store, kind, ns, name string) (any, error) {
	switch kind {
	case "Secret":
		return st.GetSecret(ns, name)
	case "ConfigMap":
		return st.GetConfigMap(ns, name)
	case "Deployment":
		return st.GetDeployment(ns, name)
	case "Pod":
		return st.GetPod(ns, name)
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

func printTable(st *store.Store, kind, ns, name string) error {
	now := time.Now()
	var out string

	switch kind {
	case "Secret":
		secrets, err := st.ListSecrets(ns)
		if err != nil {
			return err
		}
		if secrets, err = filterByName(secrets, name, func(s corev1.Secret) string { return s.Name }); err != nil {
			return fmt.Errorf("secret %q not found in namespace %q", name, ns)
		}
		out = printer.SecretTable(secrets, now)

	case "ConfigMap":
		cms, err := st.ListConfigMaps(ns)
		if err != nil {
			return err
		}
		if cms, err = filterByName(cms, name, func(c corev1.ConfigMap) string { return c.Name }); err != nil {
			return fmt.Errorf("configmap %q not found in namespace %q", name, ns)
		}
		out = printer.ConfigMapTable(cms, now)

	case "Deployment":
		deps, err := st.ListDeployments(ns)
		if err != nil {
			return err
		}
		if deps, err = filterByName(deps, name, func(d appsv1.Deployment) string { return d.Name }); err != nil {
			return fmt.Errorf("deployment %q not found in namespace %q", name, ns)
		}
		out = printer.DeploymentTable(deps, now)

	case "Pod":
		pods, err := st.ListPods(ns)
		if err != nil {
			return err
		}
		if pods, err = filterByName(pods, name, func(p corev1.Pod) string { return p.Name }); err != nil {
			return fmt.Errorf("pod %q not found in namespace %q", name, ns)
		}
		out = printer.PodTable(pods, now)
	}

	fmt.Fprint(stdout, out)
	return nil
}

// filterByName narrows a listing to a single named object. An empty name
// keeps the whole list.
func filterByName[T any](items []T, name string, nameOf func(T) string) ([]T, error) {
	if name == "" {
		return items, nil
	}
	for _, item := range items {
		if nameOf(item) == name {
			return []T{item}, nil
		}
	}
	return nil, store.ErrNotFound
}

func watchPods(_ context.Context, syncEvery time.Duration, st *store.Store, ns string) error {
	fetch := func() ([]tui.PodRow, error) {
		pods, err := st.ListPods(ns)
		if err != nil {
			return nil, err
		}
		rows := make([]tui.PodRow, 0, len(pods))
		for _, pod := range pods {
			rows = append(rows, podRow(pod))
		}
		return rows, nil
	}
	return runProgram(tui.NewWatchModel(ns, syncEvery, fetch))
}

func podRow(pod corev1.Pod) tui.PodRow {
	row := tui.PodRow{
		Namespace:  pod.Namespace,
		Name:       pod.Name,
		Deployment: pod.Labels[runtime.DeploymentLabel],
		Phase:      string(pod.Status.Phase),
	}
	for _, cs := range pod.Status.ContainerStatuses {
		row.Restarts += cs.RestartCount
		row.Ready = cs.Ready
	}
	if pod.Status.StartTime != nil {
		row.StartedAt = pod.Status.StartTime.Time
	}
	if stamp := pod.Annotations[runtime.LastSyncAnnotation]; stamp != "" {
		if t, err := time.Parse(time.RFC3339, stamp); err == nil {
			row.LastVolumeSync = t
		}
	}
	return row
}
