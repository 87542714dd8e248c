package parser

import (
	"fmt"
	"regexp"
)

// PlayRecap holds the task counters from an ansible play recap line.
type PlayRecap struct {
	OK          int
	Changed     int
	Failed      int
	Unreachable int
}

// Found reports whether a recap line was present in the output at all.
func (r PlayRecap) Found() bool {
	return r.OK > 0 || r.Changed > 0 || r.Failed > 0 || r.Unreachable > 0
}

// Converged reports whether the run made no changes and hit no failures,
// the signal the idempotency executor looks for on repeat cycles.
func (r PlayRecap) Converged() bool {
	return r.Changed == 0 && r.Failed == 0 && r.Unreachable == 0
}

// PlaybookParser extracts recap counters from ansible playbook output.
type PlaybookParser struct{}

// NewPlaybookParser creates a new PlaybookParser.
func NewPlaybookParser() *PlaybookParser {
	return &PlaybookParser{}
}

var recapPattern = regexp.MustCompile(`ok=(\d+)\s+changed=(\d+)\s+unreachable=(\d+)\s+failed=(\d+)`)

// Parse sums the recap counters across all hosts in the output. Output
// without a recap line yields a zero recap; callers check Found.
func (p *PlaybookParser) Parse(output string) PlayRecap {
	var recap PlayRecap
	for _, m := range recapPattern.FindAllStringSubmatch(output, -1) {
		var ok, changed, unreachable, failed int
		fmt.Sscanf(m[1], "%d", &ok)
		fmt.Sscanf(m[2], "%d", &changed)
		fmt.Sscanf(m[3], "%d", &unreachable)
		fmt.Sscanf(m[4], "%d", &failed)
		recap.OK += ok
		recap.Changed += changed
		recap.Unreachable += unreachable
		recap.Failed += failed
	}
	return recap
}
