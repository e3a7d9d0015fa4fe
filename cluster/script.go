package cluster

import (
	"fmt"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

// scriptTemplate is the training command executed on every task. Metric
// upload is switched to offline mode when no API key was resolved.
const scriptTemplate = `#!/bin/bash
set -euo pipefail

{{ if .WandbOffline -}}
export WANDB_MODE=offline
{{- else -}}
export WANDB_API_KEY={{ .WandbKey }}
{{- end }}
export HYDRA_FULL_ERROR=1

cd /workspace

python train.py \
  --project {{ .Project | replace " " "_" }} \
  --exp-name {{ .Experiment | replace " " "_" }} \
  --config {{ .ConfigName }} \
  --num-nodes {{ .Nodes }} \
  --gpus-per-node {{ .GPUsPerNode }} \
  --world-size {{ .TotalTasks }} \
  --data-dir /data \
  --output-dir /results/{{ .Project }}/{{ .ConfigName }}/{{ .Experiment }}
`

// RenderScript produces the job script contents for this spec.
func (j JobSpec) RenderScript() (string, error) {
	parsed, err := template.New(scriptName).
		Funcs(sprig.FuncMap()).
		Parse(scriptTemplate)
	if err != nil {
		return "", fmt.Errorf("could not parse job script template: %w", err)
	}

	builder := &strings.Builder{}

	err = parsed.Execute(builder, j)
	if err != nil {
		return "", fmt.Errorf("could not render job script: %w", err)
	}

	return builder.String(), nil
}
