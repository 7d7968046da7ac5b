package workload

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/plantfloor/floorsim/sim"
)

// GeneratorSpec describes a synthetic production floor.
type GeneratorSpec struct {
	Seed              int64
	Jobs              int   // number of articles
	Operations        int   // distinct operations, named OP01, OP02, ...
	MaxResourcesPerOp int   // each operation gets 1..MaxResourcesPerOp workstations
	MinDuration       int64 // workstation processing time bounds, inclusive
	MaxDuration       int64
	MaxRouteLength    int // each article visits 1..MaxRouteLength operations
}

// DefaultGeneratorSpec returns a small floor suitable for demos.
func DefaultGeneratorSpec() GeneratorSpec {
	return GeneratorSpec{
		Seed:              42,
		Jobs:              50,
		Operations:        5,
		MaxResourcesPerOp: 3,
		MinDuration:       1,
		MaxDuration:       30,
		MaxRouteLength:    4,
	}
}

// Validate checks the generator bounds.
func (g GeneratorSpec) Validate() error {
	if g.Jobs < 0 {
		return fmt.Errorf("jobs must be non-negative, got %d", g.Jobs)
	}
	if g.Operations <= 0 {
		return fmt.Errorf("operations must be positive, got %d", g.Operations)
	}
	if g.MaxResourcesPerOp <= 0 {
		return fmt.Errorf("max resources per operation must be positive, got %d", g.MaxResourcesPerOp)
	}
	if g.MinDuration < 0 || g.MaxDuration < g.MinDuration {
		return fmt.Errorf("duration range [%d,%d] is invalid", g.MinDuration, g.MaxDuration)
	}
	if g.MaxRouteLength <= 0 {
		return fmt.Errorf("max route length must be positive, got %d", g.MaxRouteLength)
	}
	return nil
}

var generatedPriorities = []string{"HIGH", "NORMAL", "LOW"}

// Generate builds a reproducible floor from spec. Every generated operation
// has at least one workstation, so no generated job starves.
func Generate(spec GeneratorSpec) (*Input, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	rng := NewPartitionedRNG(spec.Seed)

	ops := make([]string, spec.Operations)
	for i := range ops {
		ops[i] = fmt.Sprintf("OP%02d", i+1)
	}

	resRng := rng.ForSubsystem(SubsystemResources)
	var resources []sim.ResourceSpec
	for _, op := range ops {
		n := 1 + resRng.Intn(spec.MaxResourcesPerOp)
		for k := 0; k < n; k++ {
			resources = append(resources, sim.ResourceSpec{
				ID:        fmt.Sprintf("ws%d", len(resources)+1),
				Operation: op,
				Duration:  spec.MinDuration + resRng.Int63n(spec.MaxDuration-spec.MinDuration+1),
			})
		}
	}

	jobRng := rng.ForSubsystem(SubsystemJobs)
	jobs := make([]sim.JobSpec, spec.Jobs)
	for i := range jobs {
		route := make([]string, 1+jobRng.Intn(spec.MaxRouteLength))
		for k := range route {
			route[k] = ops[jobRng.Intn(len(ops))]
		}
		jobs[i] = sim.JobSpec{
			ID:         strconv.Itoa(i + 1),
			Priority:   generatedPriorities[jobRng.Intn(len(generatedPriorities))],
			Operations: route,
		}
	}

	logrus.Debugf("Generated %d jobs and %d workstations (seed=%d)", len(jobs), len(resources), spec.Seed)
	return &Input{Jobs: jobs, Resources: resources}, nil
}

// WriteArticles writes jobs in the articles CSV layout, header first.
func WriteArticles(w io.Writer, jobs []sim.JobSpec) error {
	writer := csv.NewWriter(w)
	writer.Comma = Separator

	if err := writer.Write([]string{"article", "priority", "operations"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, j := range jobs {
		row := append([]string{j.ID, j.Priority}, j.Operations...)
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing article %s: %w", j.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteWorkstations writes resources in the workstations CSV layout, header first.
func WriteWorkstations(w io.Writer, resources []sim.ResourceSpec) error {
	writer := csv.NewWriter(w)
	writer.Comma = Separator

	if err := writer.Write([]string{"workstation", "operation", "time"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range resources {
		if err := writer.Write([]string{r.ID, r.Operation, strconv.FormatInt(r.Duration, 10)}); err != nil {
			return fmt.Errorf("writing workstation %s: %w", r.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
