package cluster_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jtarchie/launchpad/cluster"
	"github.com/jtarchie/launchpad/config"
	. "github.com/onsi/gomega"
)

func TestResolveWandbKeyConfigured(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	key, offline := cluster.ResolveWandbKey("abc123", filepath.Join(t.TempDir(), "netrc"))
	assert.Expect(key).To(Equal("abc123"))
	assert.Expect(offline).To(BeFalse())
}

func TestResolveWandbKeyFromCredentialsFile(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	path := filepath.Join(t.TempDir(), "netrc")
	contents := "machine example.com\n  login other\n  password nope\nmachine api.wandb.ai\n  login user\n  password s3cr3t\n"

	err := os.WriteFile(path, []byte(contents), 0o600)
	assert.Expect(err).NotTo(HaveOccurred())

	key, offline := cluster.ResolveWandbKey("", path)
	assert.Expect(key).To(Equal("s3cr3t"))
	assert.Expect(offline).To(BeFalse())
}

func TestResolveWandbKeyPlaceholderIgnored(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	key, offline := cluster.ResolveWandbKey(config.NotSpecified, filepath.Join(t.TempDir(), "netrc"))
	assert.Expect(key).To(BeEmpty())
	assert.Expect(offline).To(BeTrue())
}

func TestResolveWandbKeyMissingEverywhere(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	key, offline := cluster.ResolveWandbKey("", filepath.Join(t.TempDir(), "netrc"))
	assert.Expect(key).To(BeEmpty())
	assert.Expect(offline).To(BeTrue())
}

func TestResolveWandbKeyMachineMissingFromFile(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	path := filepath.Join(t.TempDir(), "netrc")

	err := os.WriteFile(path, []byte("machine example.com login a password b\n"), 0o600)
	assert.Expect(err).NotTo(HaveOccurred())

	key, offline := cluster.ResolveWandbKey("", path)
	assert.Expect(key).To(BeEmpty())
	assert.Expect(offline).To(BeTrue())
}
