// Package report renders the course results into the exchange formats the
// surrounding CI tooling consumes.
package report

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/eparenti/eqa-sub002/internal/domain"
)

// JUnit document shapes: one testsuite per exercise, one testcase per
// executed category, counters matching the model counts exactly.

type junitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Name     string           `xml:"name,attr"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Time     string           `xml:"time,attr"`
	Suites   []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

// WriteJUnit renders the course results as a JUnit XML document.
func WriteJUnit(w io.Writer, results domain.CourseTestResults) error {
	doc := junitTestSuites{
		Name: results.CourseCode,
		Time: fmt.Sprintf("%.3f", results.DurationSeconds),
	}

	for _, er := range results.Exercises {
		suite := junitTestSuite{
			Name: er.ExerciseID,
			Time: fmt.Sprintf("%.3f", er.DurationSeconds),
		}
		for _, tr := range er.Categories {
			tc := junitTestCase{
				Name:      string(tr.Category),
				ClassName: er.ExerciseID,
				Time:      fmt.Sprintf("%.3f", tr.DurationSeconds),
			}
			if !tr.Passed {
				message := tr.ErrorMessage
				if message == "" {
					message = fmt.Sprintf("%d bug(s) found", len(tr.Bugs))
				}
				content := ""
				for _, bug := range tr.Bugs {
					content += fmt.Sprintf("[%s] %s\n", bug.Severity, bug.Description)
				}
				tc.Failure = &junitFailure{Message: message, Content: content}
				suite.Failures++
			}
			suite.Tests++
			suite.Cases = append(suite.Cases, tc)
		}
		doc.Tests += suite.Tests
		doc.Failures += suite.Failures
		doc.Suites = append(doc.Suites, suite)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode junit report: %w", err)
	}
	return nil
}
