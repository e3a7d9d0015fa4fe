// Package commands holds the kong command tree for the launchpad CLI.
package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/docker/docker/api/types/registry"
	"github.com/jtarchie/launchpad/config"
	"github.com/jtarchie/launchpad/refs"
	"github.com/samber/lo"
)

// CLI is the root of the command tree, parsed by kong in main.
type CLI struct {
	Build   Build   `cmd:"" help:"Build and tag the training image"`
	Push    Push    `cmd:"" help:"Push the training image to the registry"`
	Pull    Pull    `cmd:"" help:"Pull the image for the configured branch and start a dev container"`
	Dev     Dev     `cmd:"" help:"Run a development container"`
	Attach  Attach  `cmd:"" help:"Attach a shell to the running dev container"`
	Root    Root    `cmd:"" help:"Run a root shell in the training container"`
	Jupyter Jupyter `cmd:"" help:"Run a Jupyter notebook server in the training container"`
	Submit  Submit  `cmd:"" help:"Submit a multi-node training job to the cluster"`

	ConfigFile string     `default:".launchpad.env" help:"Override configuration file (created on first run)"`
	LogLevel   slog.Level `default:"info"           help:"Set the log level (debug, info, warn, error)"`
	AddSource  bool       `help:"Add source code location to log messages"`
	LogFormat  string     `default:"text"           enum:"text,json"                                      help:"Set the log format (text, json)"`
}

var operations = []string{"build", "push", "pull", "dev", "attach", "root", "jupyter", "submit"}

// IsOperation reports whether the first CLI argument names a known command,
// so main can distinguish a help request from a genuine parse failure.
func IsOperation(name string) bool {
	return lo.Contains(operations, name)
}

// ErrCredentialsNotSpecified is returned when a registry operation runs with
// the placeholder credentials still in the configuration.
var ErrCredentialsNotSpecified = errors.New("registry credentials are not configured")

func registryAuth(record config.Record) (registry.AuthConfig, error) {
	if record.Registry == config.NotSpecified ||
		record.RegistryUser == config.NotSpecified ||
		record.RegistryToken == config.NotSpecified {
		return registry.AuthConfig{}, fmt.Errorf(
			"%w: set LAUNCHPAD_REGISTRY, LAUNCHPAD_REGISTRY_USER, and LAUNCHPAD_REGISTRY_TOKEN",
			ErrCredentialsNotSpecified,
		)
	}

	return registry.AuthConfig{
		Username:      record.RegistryUser,
		Password:      record.RegistryToken,
		ServerAddress: record.Registry,
	}, nil
}

// resolveVersion defaults the version tag to the short commit hash of the
// configured branch.
func resolveVersion(version string, record config.Record) (string, error) {
	if version != "" {
		return version, nil
	}

	tag, err := refs.ResolveBranch(record.CodePath, record.Branch)
	if err != nil {
		return "", fmt.Errorf("could not resolve version from branch %q: %w", record.Branch, err)
	}

	return tag, nil
}
