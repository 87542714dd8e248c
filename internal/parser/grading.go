package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// GradingReport is the parsed outcome of one `lab grade` run.
type GradingReport struct {
	PassedChecks    int
	FailedChecks    int
	FailureMessages []string
}

// Passed reports whether grading certified the exercise.
func (r GradingReport) Passed() bool {
	return r.FailedChecks == 0
}

// GradingParser extracts check counts and failure messages from grading
// script output.
type GradingParser struct{}

// NewGradingParser creates a new GradingParser.
func NewGradingParser() *GradingParser {
	return &GradingParser{}
}

var (
	gradeSummaryPattern = regexp.MustCompile(`(?i)(\d+)\s+passed\D+(\d+)\s+failed`)
	gradePassLine       = regexp.MustCompile(`(?i)^\s*(?:·|\*)?\s*(?:PASS|SUCCESS|✓)\b`)
	gradeFailLine       = regexp.MustCompile(`(?i)^\s*(?:·|\*)?\s*(?:FAIL(?:URE)?!?|ERROR|✗)\b[:\s]*(.*)$`)
)

// Parse extracts pass/fail check counts from grading output. Prefers the
// summary line ("5 passed, 2 failed"), then per-check lines; if neither is
// recognizable, falls back to one check for the whole run keyed on the exit
// status.
func (p *GradingParser) Parse(output string, exitZero bool) GradingReport {
	var report GradingReport

	var linePassed, lineFailed int
	for _, line := range strings.Split(output, "\n") {
		if gradePassLine.MatchString(line) {
			linePassed++
			continue
		}
		if m := gradeFailLine.FindStringSubmatch(line); len(m) == 2 {
			lineFailed++
			msg := strings.TrimSpace(m[1])
			if msg == "" {
				msg = strings.TrimSpace(line)
			}
			report.FailureMessages = append(report.FailureMessages, msg)
		}
	}

	if m := gradeSummaryPattern.FindStringSubmatch(output); len(m) == 3 {
		fmt.Sscanf(m[1], "%d", &report.PassedChecks)
		fmt.Sscanf(m[2], "%d", &report.FailedChecks)
		return report
	}

	report.PassedChecks = linePassed
	report.FailedChecks = lineFailed
	if linePassed == 0 && lineFailed == 0 {
		// Fallback: one "check" per run.
		if exitZero {
			report.PassedChecks = 1
		} else {
			report.FailedChecks = 1
			report.FailureMessages = append(report.FailureMessages, strings.TrimSpace(output))
		}
	}
	return report
}

// correctiveTerms is the fixed vocabulary an actionable grading failure
// message must contain at least one of.
var correctiveTerms = []string{
	"expected", "should", "must", "missing", "ensure", "verify", "not found", "check",
}

// Actionable reports whether a grading failure message tells the student
// what to fix.
func Actionable(message string) bool {
	lower := strings.ToLower(message)
	for _, term := range correctiveTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
