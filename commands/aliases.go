package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jtarchie/launchpad/config"
	"github.com/jtarchie/launchpad/launch"
)

// devContainerName is fixed so attach can find the container later.
const devContainerName = "launchpad-dev"

// Aliases maps an operation to the operation whose container descriptor it
// reuses: pull launches the same container as dev once the image is down,
// and root runs in the same image resolution as jupyter.
var Aliases = map[string]string{
	"pull": "dev",
	"root": "jupyter",
}

func canonical(operation string) string {
	if target, ok := Aliases[operation]; ok {
		return target
	}

	return operation
}

// DescriptorOptions carries the per-invocation flags that shape a
// descriptor.
type DescriptorOptions struct {
	ImageOverride string
	Daemon        bool
}

// ErrUnknownOperation is returned for operations with no container
// descriptor.
var ErrUnknownOperation = errors.New("operation has no container descriptor")

// DescriptorFor builds the container invocation descriptor for an
// operation, resolving aliases first. Aliased operations produce a
// descriptor identical to their target's.
func DescriptorFor(operation string, record config.Record, options DescriptorOptions) (launch.Descriptor, error) {
	switch canonical(operation) {
	case "dev":
		return devDescriptor(record, options), nil
	case "jupyter":
		return jupyterDescriptor(record), nil
	}

	return launch.Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownOperation, operation)
}

func baseMounts(descriptor *launch.Descriptor, record config.Record) {
	descriptor.AddMount(record.CodePath, "/workspace")
	descriptor.AddMount(record.DataPath, "/data")
}

func devDescriptor(record config.Record, options DescriptorOptions) launch.Descriptor {
	descriptor := launch.Descriptor{
		Image:   record.Image,
		Name:    devContainerName,
		WorkDir: "/workspace",
		Mode:    launch.ModeInteractive,
		Command: []string{"/bin/bash"},
	}

	if options.ImageOverride != "" {
		descriptor.Image = options.ImageOverride
	}

	if options.Daemon {
		descriptor.Mode = launch.ModeDaemon
		// keep the container alive so attach has a target
		descriptor.Command = []string{"sleep", "infinity"}
	}

	baseMounts(&descriptor, record)
	descriptor.AddMount(record.ResultPath, "/results")
	descriptor.AddMount(filepath.Join(record.CodePath, "models"), "/models")

	if record.WandbAPIKey != "" {
		descriptor.AddEnv("WANDB_API_KEY", record.WandbAPIKey)
	}

	descriptor.ForwardEnv("PYTHONPATH")

	return descriptor
}

func jupyterDescriptor(record config.Record) launch.Descriptor {
	descriptor := launch.Descriptor{
		Image:   record.Image,
		Name:    "launchpad-jupyter",
		WorkDir: "/workspace",
		Mode:    launch.ModeServer,
		Command: []string{
			"jupyter", "lab",
			"--no-browser",
			"--allow-root",
			"--ip=0.0.0.0",
			"--port=" + record.JupyterPort,
			"--NotebookApp.token=",
			"--notebook-dir=/workspace",
		},
	}

	baseMounts(&descriptor, record)
	descriptor.AddMount(record.ResultPath, "/results")
	descriptor.AddPort(record.JupyterPort, record.JupyterPort)

	return descriptor
}
