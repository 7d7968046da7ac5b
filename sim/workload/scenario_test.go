package workload

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantfloor/floorsim/sim"
)

const inlineScenario = `
policy: priority
workers: 4
drain_timeout: 30s
jobs:
  - id: "1"
    priority: HIGH
    operations: [CUT, POLISH]
resources:
  - id: ws1
    operation: CUT
    duration: 10
  - id: ws2
    operation: POLISH
    duration: 15
`

func TestParseScenario_Inline(t *testing.T) {
	// GIVEN a scenario with inline jobs and resources
	sc, err := ParseScenario([]byte(inlineScenario))
	require.NoError(t, err)

	// WHEN it is resolved
	in, err := sc.Resolve()
	require.NoError(t, err)

	// THEN settings and tables come through unchanged
	cfg := sc.Config()
	assert.Equal(t, sim.PolicyPriority, cfg.Policy)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.DrainTimeout)
	assert.Equal(t, []string{"CUT", "POLISH"}, in.Jobs[0].Operations)
	assert.Equal(t, int64(15), in.Resources[1].Duration)
}

func TestParseScenario_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "policy: fifo\nspeed: 3\n", "field speed not found"},
		{"unknown policy", "policy: lifo\n", "unknown policy"},
		{"negative workers", "workers: -1\n", "workers must be non-negative"},
		{"both jobs sources", "articles_file: a.csv\njobs: [{id: x}]\n", "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_RelativeFileReferences(t *testing.T) {
	// GIVEN a scenario file next to its CSV inputs
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte(articlesCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "w.csv"), []byte(workstationsCSV), 0o644))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("articles_file: a.csv\nworkstations_file: w.csv\n"), 0o644))

	// WHEN it is loaded and resolved
	sc, err := LoadScenario(path)
	require.NoError(t, err)
	in, err := sc.Resolve()

	// THEN the references resolve against the scenario's directory
	require.NoError(t, err)
	assert.Len(t, in.Jobs, 3)
	assert.Len(t, in.Resources, 3)
	assert.Equal(t, []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "w.csv")}, sc.Files())
	assert.Equal(t, sim.DispatchPolicy(""), sc.Config().Policy)
}
