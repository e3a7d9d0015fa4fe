package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jtarchie/launchpad/cluster"
	"github.com/jtarchie/launchpad/config"
)

type Submit struct {
	Nodes           int    `default:"2"              help:"Number of nodes to allocate"`
	GPUsPerNode     int    `default:"16"             help:"GPUs (and tasks) per node"                          name:"gpus-per-node"`
	Config          string `default:"small_span_aug" help:"Training configuration name"`
	Project         string `help:"Project name (defaults to the cluster prefix of the hostname)"`
	Experiment      string `help:"Experiment name (defaults to <config>_<hostname>)"`
	CredentialsFile string `help:"netrc-style credentials file consulted for the metrics API key (defaults to ~/.netrc)"`
}

func (c *Submit) Run(logger *slog.Logger, record config.Record) error {
	logger = logger.WithGroup("submit")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("could not determine hostname: %w", err)
	}

	project, experiment := DeriveNames(hostname, c.Config)

	if c.Project != "" {
		project = c.Project
	}

	if c.Experiment != "" {
		experiment = c.Experiment
	}

	credentialsPath := c.CredentialsFile
	if credentialsPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not determine home directory: %w", err)
		}

		credentialsPath = filepath.Join(home, ".netrc")
	}

	key, offline := cluster.ResolveWandbKey(record.WandbAPIKey, credentialsPath)
	if offline {
		logger.Warn("wandb.offline", "reason", "no API key in environment or credentials file", "path", credentialsPath)
	}

	job := cluster.JobSpec{
		Project:      project,
		Experiment:   experiment,
		ConfigName:   c.Config,
		Nodes:        c.Nodes,
		GPUsPerNode:  c.GPUsPerNode,
		Image:        record.Image,
		DataPath:     record.DataPath,
		CodePath:     record.CodePath,
		OutputPath:   record.ResultPath,
		WandbKey:     key,
		WandbOffline: offline,
	}

	return job.Submit(ctx, logger)
}

// DeriveNames produces the default project and experiment names from the
// submitting host: the project is the cluster prefix of the hostname (the
// part before the first dash), the experiment combines the training
// configuration with the host's short name.
func DeriveNames(hostname, configName string) (string, string) {
	short, _, _ := strings.Cut(hostname, ".")

	project, _, _ := strings.Cut(short, "-")
	if project == "" {
		project = "trainer"
	}

	return project, configName + "_" + short
}
