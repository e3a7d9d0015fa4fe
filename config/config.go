package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// NotSpecified is the placeholder value for credentials that have no sane
// default. Commands that need the real value check for it and fail with a
// useful message instead of sending the placeholder to a registry.
const NotSpecified = "NotSpecified"

// DevBranch is the sentinel branch selector meaning "use the local working
// copy" rather than a named remote branch.
const DevBranch = "__dev__"

// Record holds every configuration value the commands consume. It is
// resolved once at process start and never mutated afterwards; commands
// receive it by value.
type Record struct {
	Image         string
	CodePath      string
	JupyterPort   string
	DataPath      string
	ResultPath    string
	Registry      string
	RegistryUser  string
	RegistryToken string
	GithubToken   string
	WandbAPIKey   string
	Branch        string
}

// entry binds an override-file/environment key to its field in Record.
type entry struct {
	key      string
	fallback string
	field    func(*Record) *string
}

var table = []entry{
	{"LAUNCHPAD_IMAGE", "registry.local/team/trainer:cheminformatics_latest", func(r *Record) *string { return &r.Image }},
	{"LAUNCHPAD_CODE_PATH", ".", func(r *Record) *string { return &r.CodePath }},
	{"LAUNCHPAD_JUPYTER_PORT", "8888", func(r *Record) *string { return &r.JupyterPort }},
	{"LAUNCHPAD_DATA_PATH", "/tmp/data", func(r *Record) *string { return &r.DataPath }},
	{"LAUNCHPAD_RESULT_PATH", "/tmp/results", func(r *Record) *string { return &r.ResultPath }},
	{"LAUNCHPAD_REGISTRY", NotSpecified, func(r *Record) *string { return &r.Registry }},
	{"LAUNCHPAD_REGISTRY_USER", NotSpecified, func(r *Record) *string { return &r.RegistryUser }},
	{"LAUNCHPAD_REGISTRY_TOKEN", NotSpecified, func(r *Record) *string { return &r.RegistryToken }},
	{"GITHUB_ACCESS_TOKEN", NotSpecified, func(r *Record) *string { return &r.GithubToken }},
	{"WANDB_API_KEY", "", func(r *Record) *string { return &r.WandbAPIKey }},
	{"LAUNCHPAD_BRANCH", DevBranch, func(r *Record) *string { return &r.Branch }},
}

// Keys returns every configuration key, in table order.
func Keys() []string {
	keys := make([]string, 0, len(table))
	for _, e := range table {
		keys = append(keys, e.key)
	}

	return keys
}

// Resolve produces the configuration record for this invocation. Precedence
// per key: process environment, then the override file at overridePath, then
// the built-in default. When the override file does not exist it is created
// with the resolved values so the next run sees the same configuration; the
// in-memory record is used as-is, not re-read from the file just written.
//
// Concurrent first runs race on creating the override file (last writer
// wins); there is no locking.
func Resolve(overridePath string) (Record, error) {
	overrides := map[string]string{}

	persist := false

	if _, err := os.Stat(overridePath); err == nil {
		overrides, err = godotenv.Read(overridePath)
		if err != nil {
			return Record{}, fmt.Errorf("could not read override file %q: %w", overridePath, err)
		}
	} else if os.IsNotExist(err) {
		persist = true
	} else {
		return Record{}, fmt.Errorf("could not stat override file %q: %w", overridePath, err)
	}

	var record Record

	for _, e := range table {
		value := e.fallback

		if fileValue, ok := overrides[e.key]; ok {
			value = fileValue
		}

		if envValue, ok := os.LookupEnv(e.key); ok {
			value = envValue
		}

		*e.field(&record) = value
	}

	if persist {
		values := map[string]string{}
		for _, e := range table {
			values[e.key] = *e.field(&record)
		}

		err := godotenv.Write(values, overridePath)
		if err != nil {
			return Record{}, fmt.Errorf("could not write override file %q: %w", overridePath, err)
		}
	}

	return record, nil
}
