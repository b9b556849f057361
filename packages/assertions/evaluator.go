package assertions

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/bradcypert/httpspec/packages/core/parser"
	"github.com/bradcypert/httpspec/packages/http"
)

// Reason tags one assertion failure. Regex outcomes reuse the
// contains-family tags.
type Reason int

const (
	ReasonStatusMismatch Reason = iota
	ReasonHeaderMismatch
	ReasonHeaderMissing
	ReasonBodyMismatch
	ReasonContainsFailed
	ReasonNotContainsFailed
	ReasonInvalidAssertionKey
	ReasonStatusFormatError
)

func (r Reason) String() string {
	switch r {
	case ReasonStatusMismatch:
		return "status_mismatch"
	case ReasonHeaderMismatch:
		return "header_mismatch"
	case ReasonHeaderMissing:
		return "header_missing"
	case ReasonBodyMismatch:
		return "body_mismatch"
	case ReasonContainsFailed:
		return "contains_failed"
	case ReasonNotContainsFailed:
		return "not_contains_failed"
	case ReasonInvalidAssertionKey:
		return "invalid_assertion_key"
	case ReasonStatusFormatError:
		return "status_format_error"
	default:
		return "unknown"
	}
}

// Failure is one structured assertion failure.
type Failure struct {
	Assertion *parser.Assertion
	File      string
	Request   string
	// Index is the 0-based position within the request's assertion list.
	Index    int
	Reason   Reason
	Expected string
	Actual   string
}

// Diagnostic collects every failure of a single request's assertions,
// in source order.
type Diagnostic struct {
	Failures []*Failure
}

func (d *Diagnostic) Empty() bool {
	return len(d.Failures) == 0
}

// Check evaluates every assertion of req against resp. It never fails
// outright: structural problems (bad key shape, unparseable expected
// status) become failures in the Diagnostic.
func Check(req *parser.Request, resp *http.Response, file string) *Diagnostic {
	e := &evaluator{
		response: resp,
		file:     file,
		request:  req.Name,
	}

	diag := &Diagnostic{}
	for i, a := range req.Assertions {
		if f := e.evaluate(a, i); f != nil {
			diag.Failures = append(diag.Failures, f)
		}
	}
	return diag
}

type evaluator struct {
	response *http.Response
	file     string
	request  string
}

func (e *evaluator) evaluate(a *parser.Assertion, index int) *Failure {
	fail := func(reason Reason, actual string) *Failure {
		return &Failure{
			Assertion: a,
			File:      e.file,
			Request:   e.request,
			Index:     index,
			Reason:    reason,
			Expected:  a.Value,
			Actual:    actual,
		}
	}

	switch {
	case strings.EqualFold(a.Key, "status"):
		return e.checkStatus(a, fail)
	case strings.EqualFold(a.Key, "body"):
		return e.checkBody(a, fail)
	case isHeaderKey(a.Key):
		return e.checkHeader(a, fail)
	default:
		return fail(ReasonInvalidAssertionKey, "")
	}
}

func (e *evaluator) checkStatus(a *parser.Assertion, fail func(Reason, string) *Failure) *Failure {
	if !e.response.HasStatus() {
		return fail(ReasonStatusMismatch, "")
	}
	actual := strconv.Itoa(e.response.StatusCode)

	switch a.Operator {
	case parser.OpEqual, parser.OpNotEqual:
		expected, err := strconv.ParseUint(a.Value, 10, 16)
		if err != nil {
			return fail(ReasonStatusFormatError, actual)
		}
		equal := int(expected) == e.response.StatusCode
		if equal == (a.Operator == parser.OpEqual) {
			return nil
		}
		return fail(ReasonStatusMismatch, actual)
	default:
		return checkText(a, actual, fail)
	}
}

func (e *evaluator) checkBody(a *parser.Assertion, fail func(Reason, string) *Failure) *Failure {
	actual := e.response.Body

	switch a.Operator {
	case parser.OpEqual, parser.OpNotEqual:
		equal := bytes.Equal(actual, []byte(a.Value))
		if equal == (a.Operator == parser.OpEqual) {
			return nil
		}
		return fail(ReasonBodyMismatch, string(actual))
	default:
		return checkText(a, string(actual), fail)
	}
}

func (e *evaluator) checkHeader(a *parser.Assertion, fail func(Reason, string) *Failure) *Failure {
	name := headerName(a.Key)
	actual, present := e.response.Header(name)

	if !present {
		switch a.Operator {
		case parser.OpEqual:
			return fail(ReasonHeaderMissing, "")
		case parser.OpNotEqual, parser.OpNotContains, parser.OpNotMatchesRegex:
			return nil
		default:
			// contains, starts_with, ends_with, matches_regex cannot
			// hold against a header that is not there.
			return fail(ReasonContainsFailed, "")
		}
	}

	switch a.Operator {
	case parser.OpEqual, parser.OpNotEqual:
		equal := strings.EqualFold(actual, a.Value)
		if equal == (a.Operator == parser.OpEqual) {
			return nil
		}
		return fail(ReasonHeaderMismatch, actual)
	default:
		return checkText(a, actual, fail)
	}
}

// checkText applies the contains family (including the regex operators)
// to a projected string value.
func checkText(a *parser.Assertion, actual string, fail func(Reason, string) *Failure) *Failure {
	var matched bool
	switch a.Operator {
	case parser.OpContains, parser.OpNotContains:
		matched = strings.Contains(actual, a.Value)
	case parser.OpStartsWith:
		matched = strings.HasPrefix(actual, a.Value)
	case parser.OpEndsWith:
		matched = strings.HasSuffix(actual, a.Value)
	case parser.OpMatchesRegex, parser.OpNotMatchesRegex:
		// An uncompilable pattern counts as a non-match.
		if re, err := regexp.Compile(a.Value); err == nil {
			matched = re.MatchString(actual)
		}
	}

	negated := a.Operator == parser.OpNotContains || a.Operator == parser.OpNotMatchesRegex
	if matched != negated {
		return nil
	}
	if negated {
		return fail(ReasonNotContainsFailed, actual)
	}
	return fail(ReasonContainsFailed, actual)
}

func isHeaderKey(key string) bool {
	return len(key) > len("header[") &&
		strings.EqualFold(key[:len("header[")], "header[") &&
		strings.Count(key, `"`) >= 2
}

// headerName extracts the name between the first and last double quote
// of a header["..."] key.
func headerName(key string) string {
	first := strings.Index(key, `"`)
	last := strings.LastIndex(key, `"`)
	if first < 0 || last <= first {
		return ""
	}
	return key[first+1 : last]
}
