package workload

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/plantfloor/floorsim/sim"
)

// minRowCells is the smallest row that carries data: an article needs an id,
// a priority and at least one operation; a workstation needs id, operation, time.
const minRowCells = 3

// trimCells trims whitespace and drops trailing empty cells so spreadsheet
// padding and "a;b;c;;" lines behave alike.
func trimCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// parseArticleRow converts "id;priority;op1;op2;..." into a JobSpec.
// ok is false for rows too short to describe an article.
func parseArticleRow(cells []string) (spec sim.JobSpec, ok bool) {
	cells = trimCells(cells)
	if len(cells) < minRowCells {
		return sim.JobSpec{}, false
	}
	spec = sim.JobSpec{ID: cells[0], Priority: cells[1]}
	for _, op := range cells[2:] {
		if op != "" {
			spec.Operations = append(spec.Operations, op)
		}
	}
	return spec, true
}

// parseWorkstationRow converts "id;operation;time" into a ResourceSpec.
// A time that is not a non-negative integer is an error.
func parseWorkstationRow(cells []string) (spec sim.ResourceSpec, ok bool, err error) {
	cells = trimCells(cells)
	if len(cells) < minRowCells {
		return sim.ResourceSpec{}, false, nil
	}
	d, err := strconv.ParseInt(cells[2], 10, 64)
	if err != nil {
		return sim.ResourceSpec{}, false, fmt.Errorf("workstation %s: invalid time %q: %w", cells[0], cells[2], err)
	}
	if d < 0 {
		return sim.ResourceSpec{}, false, fmt.Errorf("workstation %s: %w (%d)", cells[0], sim.ErrNegativeDuration, d)
	}
	return sim.ResourceSpec{ID: cells[0], Operation: cells[1], Duration: d}, true, nil
}
