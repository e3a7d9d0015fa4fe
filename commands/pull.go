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
	"github.com/jtarchie/launchpad/refs"
)

type Pull struct{}

// Run logs into the registry, pulls the image tagged with the configured
// branch's current tip, and then starts the same container a plain dev
// invocation would.
func (c *Pull) Run(logger *slog.Logger, record config.Record) error {
	logger = logger.WithGroup("image.pull")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	repository, _, err := refs.SplitImageRef(record.Image)
	if err != nil {
		return fmt.Errorf("could not parse configured image: %w", err)
	}

	branchTag, err := refs.ResolveBranch(record.CodePath, record.Branch)
	if err != nil {
		return fmt.Errorf("could not resolve branch %q: %w", record.Branch, err)
	}

	auth, err := registryAuth(record)
	if err != nil {
		return err
	}

	client, err := launch.NewClient(logger)
	if err != nil {
		return fmt.Errorf("could not connect to docker: %w", err)
	}
	defer func() { _ = client.Close() }()

	err = client.Login(ctx, auth)
	if err != nil {
		return err
	}

	ref := repository + ":" + branchTag

	logger.Info("image.pull.start", "ref", ref)

	err = client.Pull(ctx, ref, auth)
	if err != nil {
		return err
	}

	descriptor, err := DescriptorFor("pull", record, DescriptorOptions{})
	if err != nil {
		return err
	}

	logger.Info("container.run", "image", descriptor.Image, "mode", descriptor.Mode.String())

	_, err = client.Run(ctx, descriptor)
	if err != nil {
		return fmt.Errorf("could not run container: %w", err)
	}

	return nil
}
