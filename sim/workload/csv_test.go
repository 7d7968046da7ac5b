package workload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantfloor/floorsim/sim"
)

const articlesCSV = `article;priority;operations
1;HIGH;CUT;POLISH
2; normal ;CUT;;VARNISH;
3;low
4;low;DRILL
`

const workstationsCSV = `workstation;operation;time
ws1;CUT;10
ws2;POLISH;15
short;CUT
ws3;VARNISH;0
`

func TestReadArticles_ParsesRowsAndSkipsShortOnes(t *testing.T) {
	// GIVEN an articles table with an empty operation cell and a two-cell row
	jobs, err := ReadArticles(strings.NewReader(articlesCSV))

	// THEN the short row is skipped and empty cells are dropped
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, sim.JobSpec{ID: "1", Priority: "HIGH", Operations: []string{"CUT", "POLISH"}}, jobs[0])
	assert.Equal(t, sim.JobSpec{ID: "2", Priority: "normal", Operations: []string{"CUT", "VARNISH"}}, jobs[1])
	assert.Equal(t, "4", jobs[2].ID)
}

func TestReadWorkstations_ParsesRowsAndSkipsShortOnes(t *testing.T) {
	resources, err := ReadWorkstations(strings.NewReader(workstationsCSV))

	require.NoError(t, err)
	assert.Equal(t, []sim.ResourceSpec{
		{ID: "ws1", Operation: "CUT", Duration: 10},
		{ID: "ws2", Operation: "POLISH", Duration: 15},
		{ID: "ws3", Operation: "VARNISH", Duration: 0},
	}, resources)
}

func TestReadWorkstations_MalformedTime_LineNumberedError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"not a number", "h;h;h\nws1;CUT;10\nws2;CUT;ten\n", "line 3"},
		{"negative", "h;h;h\nws1;CUT;-4\n", "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadWorkstations(strings.NewReader(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadArticles_HeaderOnlyAndEmpty(t *testing.T) {
	for _, body := range []string{"", "article;priority;ops\n"} {
		jobs, err := ReadArticles(strings.NewReader(body))
		require.NoError(t, err)
		assert.Empty(t, jobs)
	}
}

func TestLoad_CSVFilesFromDisk(t *testing.T) {
	// GIVEN both tables written to a temp dir
	dir := t.TempDir()
	articles := filepath.Join(dir, "articles.csv")
	workstations := filepath.Join(dir, "workstations.csv")
	require.NoError(t, os.WriteFile(articles, []byte(articlesCSV), 0o644))
	require.NoError(t, os.WriteFile(workstations, []byte(workstationsCSV), 0o644))

	// WHEN loaded
	in, err := Load(articles, workstations)

	// THEN both tables are read
	require.NoError(t, err)
	assert.Len(t, in.Jobs, 3)
	assert.Len(t, in.Resources, 3)
}

func TestLoad_MissingFile_Error(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), "also-missing.csv")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatXLSX, DetectFormat("plant/Floor.XLSX"))
	assert.Equal(t, FormatCSV, DetectFormat("articles.csv"))
	assert.Equal(t, FormatCSV, DetectFormat("articles.txt"))
}
