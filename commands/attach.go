package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jtarchie/launchpad/config"
	"github.com/jtarchie/launchpad/launch"
)

type Attach struct{}

func (c *Attach) Run(logger *slog.Logger, _ config.Record) error {
	logger = logger.WithGroup("attach")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := launch.NewClient(logger)
	if err != nil {
		return fmt.Errorf("could not connect to docker: %w", err)
	}
	defer func() { _ = client.Close() }()

	containerID, err := client.FindByName(ctx, devContainerName)
	if err != nil {
		if errors.Is(err, launch.ErrContainerNotFound) {
			return fmt.Errorf("no dev container is running, start one with `launchpad dev --daemon`: %w", err)
		}

		return err
	}

	logger.Info("container.attach", "id", containerID, "name", devContainerName)

	return client.AttachShell(ctx, containerID, []string{"/bin/bash"})
}
