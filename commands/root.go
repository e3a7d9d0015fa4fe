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

type Root struct{}

// Run starts an interactive root shell in the same image a jupyter
// invocation would use.
func (c *Root) Run(logger *slog.Logger, record config.Record) error {
	logger = logger.WithGroup("root")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	descriptor, err := DescriptorFor("root", record, DescriptorOptions{})
	if err != nil {
		return err
	}

	descriptor.Name = "launchpad-root-" + gonanoid.Must()
	descriptor.User = "root"
	descriptor.Mode = launch.ModeInteractive
	descriptor.Command = []string{"/bin/bash"}
	// a shell has no use for the notebook port, and binding it would
	// conflict with a running server
	descriptor.Ports = nil

	client, err := launch.NewClient(logger)
	if err != nil {
		return fmt.Errorf("could not connect to docker: %w", err)
	}
	defer func() { _ = client.Close() }()

	logger.Info("container.run", "image", descriptor.Image, "user", descriptor.User)

	_, err = client.Run(ctx, descriptor)
	if err != nil {
		return fmt.Errorf("could not run container: %w", err)
	}

	return nil
}
