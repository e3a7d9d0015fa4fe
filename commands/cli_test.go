package commands_test

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/jtarchie/launchpad/commands"
	. "github.com/onsi/gomega"
)

func newParser(t *testing.T) *kong.Kong {
	t.Helper()

	parser, err := kong.New(&commands.CLI{}, kong.Name("launchpad"))
	if err != nil {
		t.Fatalf("could not build parser: %s", err)
	}

	return parser
}

func TestVersionFlagOnlyOnBuildAndPush(t *testing.T) {
	t.Parallel()

	accepts := map[string]bool{
		"build":   true,
		"push":    true,
		"pull":    false,
		"dev":     false,
		"attach":  false,
		"root":    false,
		"jupyter": false,
	}

	for operation, accepted := range accepts {
		t.Run(operation, func(t *testing.T) {
			t.Parallel()

			assert := NewGomegaWithT(t)

			_, err := newParser(t).Parse([]string{operation, "--version", "abc1234"})
			if accepted {
				assert.Expect(err).NotTo(HaveOccurred())
			} else {
				assert.Expect(err).To(HaveOccurred())
			}
		})
	}
}

func TestDevFlags(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	_, err := newParser(t).Parse([]string{"dev", "--image", "trainer:nightly", "--daemon"})
	assert.Expect(err).NotTo(HaveOccurred())

	_, err = newParser(t).Parse([]string{"jupyter", "--daemon"})
	assert.Expect(err).To(HaveOccurred())
}

func TestUnknownOperation(t *testing.T) {
	t.Parallel()

	assert := NewGomegaWithT(t)

	_, err := newParser(t).Parse([]string{"bogus"})
	assert.Expect(err).To(HaveOccurred())

	assert.Expect(commands.IsOperation("bogus")).To(BeFalse())
	assert.Expect(commands.IsOperation("jupyter")).To(BeTrue())
}

func TestDeriveNames(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name, hostname, config, project, experiment string
	}{
		{"cluster login node", "draco-oslo-01.example.com", "small_span_aug", "draco", "small_span_aug_draco-oslo-01"},
		{"plain host", "workstation", "large", "workstation", "large_workstation"},
		{"empty hostname", "", "small", "trainer", "small_"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert := NewGomegaWithT(t)

			project, experiment := commands.DeriveNames(tc.hostname, tc.config)
			assert.Expect(project).To(Equal(tc.project))
			assert.Expect(experiment).To(Equal(tc.experiment))
		})
	}
}
