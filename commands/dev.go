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
)

type Dev struct {
	Image  string `help:"Override the configured image reference"`
	Daemon bool   `help:"Run detached; attach a shell later with the attach command"`
}

func (c *Dev) Run(logger *slog.Logger, record config.Record) error {
	logger = logger.WithGroup("dev")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	descriptor, err := DescriptorFor("dev", record, DescriptorOptions{
		ImageOverride: c.Image,
		Daemon:        c.Daemon,
	})
	if err != nil {
		return err
	}

	client, err := launch.NewClient(logger)
	if err != nil {
		return fmt.Errorf("could not connect to docker: %w", err)
	}
	defer func() { _ = client.Close() }()

	logger.Info("container.run", "image", descriptor.Image, "mode", descriptor.Mode.String())

	containerID, err := client.Run(ctx, descriptor)
	if err != nil {
		return fmt.Errorf("could not run container: %w", err)
	}

	if c.Daemon {
		logger.Info("container.detached", "id", containerID, "name", descriptor.Name)
	}

	return nil
}
