// Package cluster prepares and submits multi-node training jobs to a SLURM
// cluster through its container-aware launcher.
package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const scriptName = "job_script.sh"

// JobSpec describes one training job submission.
type JobSpec struct {
	Project     string
	Experiment  string
	ConfigName  string
	Nodes       int
	GPUsPerNode int
	Image       string
	DataPath    string
	CodePath    string
	OutputPath  string
	WandbKey    string
	// WandbOffline keeps metric logging local when no API key could be
	// resolved; the job still runs.
	WandbOffline bool
}

// TotalTasks is the task count handed to the launcher: one task per GPU
// across all nodes.
func (j JobSpec) TotalTasks() int {
	return j.Nodes * j.GPUsPerNode
}

// ScriptDir is where the generated job script and the job's logs live.
func (j JobSpec) ScriptDir() string {
	return filepath.Join(j.OutputPath, j.Project, j.ConfigName, j.Experiment)
}

// Mounts renders the container volume specification for the launcher.
func (j JobSpec) Mounts() string {
	return strings.Join([]string{
		j.DataPath + ":/data",
		j.CodePath + ":/workspace",
		j.OutputPath + ":/results",
	}, ",")
}

// WriteScript renders the training command and writes it under the results
// directory, creating the directory hierarchy as needed. Returns the script
// path.
func (j JobSpec) WriteScript() (string, error) {
	contents, err := j.RenderScript()
	if err != nil {
		return "", err
	}

	dir := j.ScriptDir()

	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return "", fmt.Errorf("could not create results directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, scriptName)

	err = os.WriteFile(path, []byte(contents), 0o755) //nolint:gosec
	if err != nil {
		return "", fmt.Errorf("could not write job script %q: %w", path, err)
	}

	return path, nil
}

// SubmitArgs builds the launcher argument list for the written script. The
// %j and %n placeholders in the log templates are expanded by the launcher
// to the job and node IDs.
func (j JobSpec) SubmitArgs(scriptPath string) []string {
	dir := j.ScriptDir()

	return []string{
		"--nodes", strconv.Itoa(j.Nodes),
		"--ntasks", strconv.Itoa(j.TotalTasks()),
		"--ntasks-per-node", strconv.Itoa(j.GPUsPerNode),
		"--gpus-per-node", strconv.Itoa(j.GPUsPerNode),
		"--output", filepath.Join(dir, "slurm-%j-%n.out"),
		"--error", filepath.Join(dir, "slurm-%j-%n.err"),
		"--container-image", j.Image,
		"--container-mounts", j.Mounts(),
		"--container-workdir", "/workspace",
		"bash", scriptPath,
	}
}

// Submit writes the job script and hands it to srun. The launcher's own
// output streams through; a non-zero exit propagates as an error.
func (j JobSpec) Submit(ctx context.Context, logger *slog.Logger) error {
	scriptPath, err := j.WriteScript()
	if err != nil {
		return err
	}

	logger.Info("job.script.written", "path", scriptPath, "tasks", j.TotalTasks())

	//nolint:gosec
	command := exec.CommandContext(ctx, "srun", j.SubmitArgs(scriptPath)...)
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr

	logger.Info("job.submit", "nodes", j.Nodes, "gpus_per_node", j.GPUsPerNode, "image", j.Image)

	err = command.Run()
	if err != nil {
		return fmt.Errorf("srun failed: %w", err)
	}

	return nil
}
