package handlers

import (
	"context"
	"fmt"
)

// Run starts the pods of a stored deployment, materializing their env
// files and projected volumes from the referenced secrets and configmaps.
func Run(ctx context.Context, opts Options, deployment string) error {
	_, st, ns, err := environment(opts)
	if err != nil {
		return err
	}

	pods, err := newRuntime(st).StartDeployment(ctx, ns, deployment)
	if err != nil {
		return err
	}

	for _, pod := range pods {
		fmt.Fprintf(stdout, "pod/%s started\n", pod)
	}
	return nil
}

// Restart re-materializes a pod's env file and volume files from the
// current store contents. This is how edited secrets and configmaps
// become visible to environment consumers.
func Restart(_ context.Context, opts Options, pod string) error {
	_, st, ns, err := environment(opts)
	if err != nil {
		return err
	}

	if err := newRuntime(st).RestartPod(ns, pod); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "pod/%s restarted\n", pod)
	return nil
}
