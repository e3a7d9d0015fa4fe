package cluster

import (
	"fmt"
	"os"
	"strings"

	"github.com/jtarchie/launchpad/config"
)

// WandbHost is the machine entry looked up in the credentials file.
const WandbHost = "api.wandb.ai"

// ResolveWandbKey decides how the job logs metrics. A configured key wins;
// otherwise the netrc-style credentials file is consulted; when neither
// yields a key the job degrades to offline logging instead of failing.
func ResolveWandbKey(configured, credentialsPath string) (string, bool) {
	if configured != "" && configured != config.NotSpecified {
		return configured, false
	}

	password, err := netrcPassword(credentialsPath, WandbHost)
	if err == nil && password != "" {
		return password, false
	}

	return "", true
}

// netrcPassword scans a netrc-format file for the password of the given
// machine entry.
func netrcPassword(path, machine string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read credentials file: %w", err)
	}

	fields := strings.Fields(string(contents))

	matched := false

	for index := 0; index+1 < len(fields); index++ {
		switch fields[index] {
		case "machine":
			matched = fields[index+1] == machine
			index++
		case "password":
			if matched {
				return fields[index+1], nil
			}

			index++
		}
	}

	return "", fmt.Errorf("no password for machine %q", machine)
}
