package sim

import (
	"fmt"
	"strings"
)

// DispatchPolicy selects the ordering discipline of every operation queue.
type DispatchPolicy string

const (
	// PolicyFIFO dispatches jobs in arrival order.
	PolicyFIFO DispatchPolicy = "fifo"
	// PolicyPriority dispatches higher-ranked jobs first, arrival order among equal ranks.
	PolicyPriority DispatchPolicy = "priority"
)

// ValidDispatchPolicies is the set of recognized policy names (lower-case).
// Empty string defaults to fifo for CLI flag and YAML compatibility.
var ValidDispatchPolicies = map[string]bool{"": true, "fifo": true, "priority": true}

// IsValidDispatchPolicy returns true if name is a recognized policy, ignoring case.
func IsValidDispatchPolicy(name string) bool {
	return ValidDispatchPolicies[strings.ToLower(strings.TrimSpace(name))]
}

// ParseDispatchPolicy resolves a policy name, ignoring case.
func ParseDispatchPolicy(name string) (DispatchPolicy, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if !ValidDispatchPolicies[n] {
		return "", fmt.Errorf("%w %q; valid: fifo, priority", ErrUnknownPolicy, name)
	}
	if n == "" {
		return PolicyFIFO, nil
	}
	return DispatchPolicy(n), nil
}
