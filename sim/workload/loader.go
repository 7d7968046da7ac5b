package workload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/plantfloor/floorsim/sim"
)

// Input is the ingestion output handed to sim.NewSimulator.
type Input struct {
	Jobs      []sim.JobSpec
	Resources []sim.ResourceSpec
}

// Format of an input file, chosen by extension.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat maps a file extension to a Format. Unknown extensions read as CSV.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// LoadArticles reads jobs from a CSV file or the articles sheet of a workbook.
func LoadArticles(path string) ([]sim.JobSpec, error) {
	if DetectFormat(path) == FormatXLSX {
		in, err := LoadWorkbook(path)
		if err != nil {
			return nil, err
		}
		return in.Jobs, nil
	}
	return LoadArticlesCSV(path)
}

// LoadWorkstations reads resources from a CSV file or the workstations sheet of a workbook.
func LoadWorkstations(path string) ([]sim.ResourceSpec, error) {
	if DetectFormat(path) == FormatXLSX {
		in, err := LoadWorkbook(path)
		if err != nil {
			return nil, err
		}
		return in.Resources, nil
	}
	return LoadWorkstationsCSV(path)
}

// LoadWorkbook reads both tables from one workbook file.
func LoadWorkbook(path string) (*Input, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	jobs, resources, err := ReadWorkbook(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Input{Jobs: jobs, Resources: resources}, nil
}

// Load reads articles and workstations from their files. When both paths name
// the same workbook it is opened once.
func Load(articlesPath, workstationsPath string) (*Input, error) {
	if articlesPath == workstationsPath && DetectFormat(articlesPath) == FormatXLSX {
		return LoadWorkbook(articlesPath)
	}
	jobs, err := LoadArticles(articlesPath)
	if err != nil {
		return nil, err
	}
	resources, err := LoadWorkstations(workstationsPath)
	if err != nil {
		return nil, err
	}
	return &Input{Jobs: jobs, Resources: resources}, nil
}
