package handlers

import (
	"context"
	"fmt"
)

// Sync refreshes projected volume files from the current store contents,
// for one pod or for every running pod in the namespace. Environment
// files are left alone; only a restart changes those.
func Sync(ctx context.Context, opts Options, pod string) error {
	_, st, ns, err := environment(opts)
	if err != nil {
		return err
	}

	rt := newRuntime(st)
	if pod != "" {
		changed, err := rt.SyncPod(ns, pod)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "pod/%s synced, %d file(s) updated\n", pod, changed)
		return nil
	}

	changed, err := rt.SyncAll(ctx, ns)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "synced all pods in %s, %d file(s) updated\n", ns, changed)
	return nil
}
