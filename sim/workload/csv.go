package workload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/plantfloor/floorsim/sim"
)

// Separator is the column separator of article and workstation files.
const Separator = ';'

// newCSVReader returns a reader positioned after the header line.
func newCSVReader(r io.Reader) (*csv.Reader, error) {
	reader := csv.NewReader(r)
	reader.Comma = Separator
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	// Skip header row
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return reader, nil
		}
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	return reader, nil
}

// ReadArticles parses an articles table (id;priority;op1;op2;...).
func ReadArticles(r io.Reader) ([]sim.JobSpec, error) {
	reader, err := newCSVReader(r)
	if err != nil {
		return nil, err
	}
	var jobs []sim.JobSpec
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		spec, ok := parseArticleRow(row)
		if !ok {
			logrus.Debugf("articles line %d: skipped, %d cell(s)", line, len(row))
			continue
		}
		jobs = append(jobs, spec)
	}
	return jobs, nil
}

// ReadWorkstations parses a workstations table (id;operation;time).
func ReadWorkstations(r io.Reader) ([]sim.ResourceSpec, error) {
	reader, err := newCSVReader(r)
	if err != nil {
		return nil, err
	}
	var resources []sim.ResourceSpec
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		spec, ok, err := parseWorkstationRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if !ok {
			logrus.Debugf("workstations line %d: skipped, %d cell(s)", line, len(row))
			continue
		}
		resources = append(resources, spec)
	}
	return resources, nil
}

// LoadArticlesCSV reads an articles file from disk.
func LoadArticlesCSV(path string) ([]sim.JobSpec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening articles: %w", err)
	}
	defer func() { _ = file.Close() }()

	jobs, err := ReadArticles(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logrus.Infof("Loaded %d articles from %s", len(jobs), path)
	return jobs, nil
}

// LoadWorkstationsCSV reads a workstations file from disk.
func LoadWorkstationsCSV(path string) ([]sim.ResourceSpec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening workstations: %w", err)
	}
	defer func() { _ = file.Close() }()

	resources, err := ReadWorkstations(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logrus.Infof("Loaded %d workstations from %s", len(resources), path)
	return resources, nil
}
