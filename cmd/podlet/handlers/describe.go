package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/podlet/internal/printer"
)

// Describe prints a human-readable report of a single object.
func Describe(_ context.Context, opts Options, kindArg, name string) error {
	kind, err := resolveKind(kindArg)
	if err != nil {
		return err
	}

	_, st, ns, err := environment(opts)
	if err != nil {
		return err
	}

	var out string
	switch kind {
	case "Secret":
		secret, err := st.GetSecret(ns, name)
		if err != nil {
			return err
		}
		out = printer.DescribeSecret(secret)
	case "ConfigMap":
		cm, err := st.GetConfigMap(ns, name)
		if err != nil {
			return err
		}
		out = printer.DescribeConfigMap(cm)
	case "Deployment":
		dep, err := st.GetDeployment(ns, name)
		if err != nil {
			return err
		}
		out = printer.DescribeDeployment(dep)
	case "Pod":
		pod, err := st.GetPod(ns, name)
		if err != nil {
			return err
		}
		out = printer.DescribePod(pod)
	}

	fmt.Fprint(stdout, out)
	return nil
}
