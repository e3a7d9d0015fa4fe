package commands_test

import (
	"testing"

	"github.com/jtarchie/launchpad/commands"
	"github.com/jtarchie/launchpad/config"
	"github.com/jtarchie/launchpad/launch"
	. "github.com/onsi/gomega"
)

func recordFixture() config.Record {
	return config.Record{
		Image:       "registry.local/team/trainer:cheminformatics_latest",
		CodePath:    "/home/dev/trainer",
		JupyterPort: "8888",
		DataPath:    "/raid/data",
		ResultPath:  "/raid/results",
		Branch:      config.DevBranch,
	}
}

func TestPullAliasesDev(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	record := recordFixture()

	pull, err := commands.DescriptorFor("pull", record, commands.DescriptorOptions{})
	assert.Expect(err).NotTo(HaveOccurred())

	dev, err := commands.DescriptorFor("dev", record, commands.DescriptorOptions{})
	assert.Expect(err).NotTo(HaveOccurred())

	assert.Expect(pull).To(Equal(dev))
}

func TestRootAliasesJupyter(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	record := recordFixture()

	root, err := commands.DescriptorFor("root", record, commands.DescriptorOptions{})
	assert.Expect(err).NotTo(HaveOccurred())

	jupyter, err := commands.DescriptorFor("jupyter", record, commands.DescriptorOptions{})
	assert.Expect(err).NotTo(HaveOccurred())

	assert.Expect(root).To(Equal(jupyter))
}

func TestAliasTable(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	assert.Expect(commands.Aliases).To(Equal(map[string]string{
		"pull": "dev",
		"root": "jupyter",
	}))
}

func TestDevDescriptor(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	record := recordFixture()
	record.WandbAPIKey = "s3cr3t"

	descriptor, err := commands.DescriptorFor("dev", record, commands.DescriptorOptions{})
	assert.Expect(err).NotTo(HaveOccurred())

	assert.Expect(descriptor.Image).To(Equal(record.Image))
	assert.Expect(descriptor.Mode).To(Equal(launch.ModeInteractive))
	assert.Expect(descriptor.Command).To(Equal([]string{"/bin/bash"}))
	assert.Expect(descriptor.Binds()).To(Equal([]string{
		"/home/dev/trainer:/workspace",
		"/raid/data:/data",
		"/raid/results:/results",
		"/home/dev/trainer/models:/models",
	}))
	assert.Expect(descriptor.Env).To(HaveKeyWithValue("WANDB_API_KEY", "s3cr3t"))
	assert.Expect(descriptor.Ports).To(BeEmpty())
}

func TestDevDescriptorOptions(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	descriptor, err := commands.DescriptorFor("dev", recordFixture(), commands.DescriptorOptions{
		ImageOverride: "other.registry/team/trainer:nightly",
		Daemon:        true,
	})
	assert.Expect(err).NotTo(HaveOccurred())

	assert.Expect(descriptor.Image).To(Equal("other.registry/team/trainer:nightly"))
	assert.Expect(descriptor.Mode).To(Equal(launch.ModeDaemon))
	assert.Expect(descriptor.Command).To(Equal([]string{"sleep", "infinity"}))
}

func TestJupyterDescriptor(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	descriptor, err := commands.DescriptorFor("jupyter", recordFixture(), commands.DescriptorOptions{})
	assert.Expect(err).NotTo(HaveOccurred())

	assert.Expect(descriptor.Mode).To(Equal(launch.ModeServer))
	assert.Expect(descriptor.Ports).To(Equal([]launch.Port{{Host: "8888", Container: "8888"}}))
	assert.Expect(descriptor.Command).To(ContainElements("jupyter", "lab", "--ip=0.0.0.0", "--port=8888", "--NotebookApp.token="))
}

func TestDescriptorForUnknownOperation(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	_, err := commands.DescriptorFor("build", recordFixture(), commands.DescriptorOptions{})
	assert.Expect(err).To(MatchError(commands.ErrUnknownOperation))
}
