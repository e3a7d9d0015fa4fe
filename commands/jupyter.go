package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jtarchie/launchpad/config"
	"github.com/jtarchie/launchpad/launch"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type Jupyter struct{}

func (c *Jupyter) Run(logger *slog.Logger, record config.Record) error {
	logger = logger.WithGroup("jupyter")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	descriptor, err := DescriptorFor("jupyter", record, DescriptorOptions{})
	if err != nil {
		return err
	}

	descriptor.Name = "launchpad-jupyter-" + gonanoid.Must()

	client, err := launch.NewClient(logger)
	if err != nil {
		return fmt.Errorf("could not connect to docker: %w", err)
	}
	defer func() { _ = client.Close() }()

	// Convenience for local development only: anyone who can reach the
	// port owns the notebook server.
	logger.Warn("jupyter.auth.disabled",
		"port", record.JupyterPort,
		"listen", "0.0.0.0",
	)

	containerID, err := client.Run(ctx, descriptor)
	if err != nil {
		return fmt.Errorf("could not run container: %w", err)
	}

	logger.Info("jupyter.started", "id", containerID, "url", "http://localhost:"+record.JupyterPort)

	return client.StreamLogs(ctx, containerID, os.Stdout, os.Stderr)
}
