package handlers

import (
	"context"
	"fmt"
)

// Delete removes a stored object. Deleting a pod also tears down its
// sandbox directory.
func Delete(_ context.Context, opts Options, kindArg, name string) error {
	kind, err := resolveKind(kindArg)
	if err != nil {
		return err
	}

	_, st, ns, err := environment(opts)
	if err != nil {
		return err
	}

	switch kind {
	case "Secret":
		err = st.DeleteSecret(ns, name)
	case "ConfigMap":
		err = st.DeleteConfigMap(ns, name)
	case "Deployment":
		err = st.DeleteDeployment(ns, name)
	case "Pod":
		err = newRuntime(st).RemovePod(ns, name)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s \"%s\" deleted\n", kindToResource(kind), name)
	return nil
}
