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

type Push struct {
	Version string `help:"Version tag to push (defaults to the short commit hash of the configured branch)"`
}

func (c *Push) Run(logger *slog.Logger, record config.Record) error {
	logger = logger.WithGroup("image.push")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	repository, _, err := refs.SplitImageRef(record.Image)
	if err != nil {
		return fmt.Errorf("could not parse configured image: %w", err)
	}

	version, err := resolveVersion(c.Version, record)
	if err != nil {
		return err
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

	for _, ref := range []string{repository + ":latest", repository + ":" + version} {
		logger.Info("image.push.start", "ref", ref)

		err = client.Push(ctx, ref, auth)
		if err != nil {
			return err
		}
	}

	logger.Info("image.push.done", "repository", repository, "version", version)

	return nil
}
