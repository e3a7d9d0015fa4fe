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
	"github.com/samber/lo"
)

type Build struct {
	Version string `help:"Version tag for the image (defaults to the short commit hash of the configured branch)"`
}

func (c *Build) Run(logger *slog.Logger, record config.Record) error {
	logger = logger.WithGroup("image.build")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	repository, configuredTag, err := refs.SplitImageRef(record.Image)
	if err != nil {
		return fmt.Errorf("could not parse configured image: %w", err)
	}

	branchTag, err := refs.ResolveBranch(record.CodePath, record.Branch)
	if err != nil {
		return fmt.Errorf("could not resolve branch %q: %w", record.Branch, err)
	}

	version := c.Version
	if version == "" {
		version = branchTag
	}

	tags := lo.Uniq([]string{
		repository + ":" + branchTag,
		repository + ":" + configuredTag,
		repository + ":" + version,
		repository + ":latest",
	})

	logger.Info("image.build.start", "repository", repository, "tags", tags, "branch", record.Branch)

	client, err := launch.NewClient(logger)
	if err != nil {
		return fmt.Errorf("could not connect to docker: %w", err)
	}
	defer func() { _ = client.Close() }()

	err = client.BuildImage(ctx, launch.BuildOptions{
		ContextDir: record.CodePath,
		Tags:       tags,
		BuildArgs: map[string]*string{
			"GITHUB_ACCESS_TOKEN": &record.GithubToken,
			"GITHUB_BRANCH":       &record.Branch,
		},
	})
	if err != nil {
		return fmt.Errorf("could not build image: %w", err)
	}

	logger.Info("image.build.done", "tags", tags)

	return nil
}
