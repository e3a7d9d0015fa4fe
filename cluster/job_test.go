package cluster_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jtarchie/launchpad/cluster"
	. "github.com/onsi/gomega"
)

func jobFixture(outputPath string) cluster.JobSpec {
	return cluster.JobSpec{
		Project:     "trainer",
		Experiment:  "baseline",
		ConfigName:  "small_span_aug",
		Nodes:       2,
		GPUsPerNode: 16,
		Image:       "registry.local/team/trainer:latest",
		DataPath:    "/raid/data",
		CodePath:    "/raid/code",
		OutputPath:  outputPath,
	}
}

func TestTotalTasks(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	job := jobFixture("/results")
	assert.Expect(job.TotalTasks()).To(Equal(32))

	job.Nodes = 1
	job.GPUsPerNode = 8
	assert.Expect(job.TotalTasks()).To(Equal(8))
}

func TestWriteScript(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	output := t.TempDir()
	job := jobFixture(output)
	job.WandbOffline = true

	path, err := job.WriteScript()
	assert.Expect(err).NotTo(HaveOccurred())

	assert.Expect(path).To(Equal(filepath.Join(output, "trainer", "small_span_aug", "baseline", "job_script.sh")))
	assert.Expect(path).To(BeAnExistingFile())

	contents, err := os.ReadFile(path)
	assert.Expect(err).NotTo(HaveOccurred())

	script := string(contents)
	assert.Expect(script).To(HavePrefix("#!/bin/bash"))
	assert.Expect(script).To(ContainSubstring("--world-size 32"))
	assert.Expect(script).To(ContainSubstring("--num-nodes 2"))

	info, err := os.Stat(path)
	assert.Expect(err).NotTo(HaveOccurred())
	assert.Expect(info.Mode().Perm() & 0o100).NotTo(BeZero(), "script should be executable")
}

func TestRenderScriptOffline(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	job := jobFixture("/results")
	job.WandbOffline = true

	script, err := job.RenderScript()
	assert.Expect(err).NotTo(HaveOccurred())

	assert.Expect(script).To(ContainSubstring("WANDB_MODE=offline"))
	assert.Expect(script).NotTo(ContainSubstring("WANDB_API_KEY"))
}

func TestRenderScriptWithKey(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	job := jobFixture("/results")
	job.WandbKey = "s3cr3t"

	script, err := job.RenderScript()
	assert.Expect(err).NotTo(HaveOccurred())

	assert.Expect(script).To(ContainSubstring("WANDB_API_KEY=s3cr3t"))
	assert.Expect(script).NotTo(ContainSubstring("WANDB_MODE=offline"))
}

func TestSubmitArgs(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	job := jobFixture("/results")

	args := job.SubmitArgs("/results/trainer/small_span_aug/baseline/job_script.sh")

	assert.Expect(args).To(ContainElements(
		"--nodes", "2",
		"--ntasks", "32",
		"--ntasks-per-node", "16",
		"--gpus-per-node", "16",
		"--container-image", "registry.local/team/trainer:latest",
		"--container-mounts", "/raid/data:/data,/raid/code:/workspace,/results:/results",
	))
	assert.Expect(args).To(ContainElement("/results/trainer/small_span_aug/baseline/slurm-%j-%n.out"))
	assert.Expect(args).To(ContainElement("/results/trainer/small_span_aug/baseline/slurm-%j-%n.err"))
	assert.Expect(args[len(args)-2:]).To(Equal([]string{"bash", "/results/trainer/small_span_aug/baseline/job_script.sh"}))
}
