package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// JSONReporter writes the Run as indented JSON.
type JSONReporter struct{}

func (JSONReporter) Report(w io.Writer, run *Run) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// YAMLReporter writes the Run as YAML.
type YAMLReporter struct{}

func (YAMLReporter) Report(w io.Writer, run *Run) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(run); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}
