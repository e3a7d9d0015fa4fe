// Package launch models a container invocation as a value that commands can
// build up and tests can inspect, rendered into Docker Engine API calls only
// at the point of execution.
package launch

import (
	"os"
	"sort"

	"github.com/samber/lo"
)

// Mode selects how the container runs.
type Mode int

const (
	// ModeInteractive attaches the caller's terminal to a shell.
	ModeInteractive Mode = iota
	// ModeDaemon starts the container and returns immediately.
	ModeDaemon
	// ModeServer runs a long-lived foreground process, streaming its logs.
	ModeServer
)

func (m Mode) String() string {
	switch m {
	case ModeInteractive:
		return "interactive"
	case ModeDaemon:
		return "daemon"
	case ModeServer:
		return "server"
	}

	return "unknown"
}

// Mount maps a host path into the container.
type Mount struct {
	Host      string
	Container string
}

// Port maps a host port to a container port (TCP).
type Port struct {
	Host      string
	Container string
}

// Descriptor is the full set of parameters for a container invocation.
type Descriptor struct {
	Image   string
	Name    string
	User    string
	WorkDir string
	Command []string
	Mode    Mode
	Mounts  []Mount
	Ports   []Port
	Env     map[string]string
}

// AddMount records a host-to-container mount. Repeated identical mounts
// collapse to one; the engine rejects duplicate targets.
func (d *Descriptor) AddMount(host, container string) {
	for _, mount := range d.Mounts {
		if mount.Host == host && mount.Container == container {
			return
		}
	}

	d.Mounts = append(d.Mounts, Mount{Host: host, Container: container})
}

// AddPort records a host-to-container TCP port mapping.
func (d *Descriptor) AddPort(host, container string) {
	d.Ports = append(d.Ports, Port{Host: host, Container: container})
}

// AddEnv sets an environment variable inside the container, replacing any
// previous value for the same key.
func (d *Descriptor) AddEnv(key, value string) {
	if d.Env == nil {
		d.Env = map[string]string{}
	}

	d.Env[key] = value
}

// ForwardEnv copies the named variable from the process environment into the
// container, when it is set.
func (d *Descriptor) ForwardEnv(key string) {
	if value, ok := os.LookupEnv(key); ok {
		d.AddEnv(key, value)
	}
}

// EnvSlice renders the environment as sorted KEY=value pairs.
func (d *Descriptor) EnvSlice() []string {
	env := lo.MapToSlice(d.Env, func(key, value string) string {
		return key + "=" + value
	})

	sort.Strings(env)

	return env
}

// Binds renders the mounts as host:container bind specifications, in the
// order they were added.
func (d *Descriptor) Binds() []string {
	return lo.Map(d.Mounts, func(mount Mount, _ int) string {
		return mount.Host + ":" + mount.Container
	})
}
