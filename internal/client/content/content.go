// Package content extracts readable text from stored invocation input and
// output, which may be plain text or JSON from older request shapes.
package content

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// textPaths are checked in order; the first truthy value wins.
var textPaths = []string{
	"output_text",
	"input_text",
	"text",
	"interview_prep.topic",
	"code_review.code",
	"resume_review.resume_text",
	"writing_assistant.text",
	"technical_troubleshooting.problem",
}

// Width 0 keeps arrays expanded one element per line.
var prettyOptions = &pretty.Options{Width: 0, Prefix: "", Indent: "  ", SortKeys: false}

// Parse returns the most readable form of s. It never fails: input that is
// not JSON, and JSON null, come back unchanged.
func Parse(s string) string {
	if !gjson.Valid(s) {
		return s
	}

	v := gjson.Parse(s)
	switch v.Type {
	case gjson.Null:
		return s
	case gjson.String:
		return v.String()
	}

	if v.IsObject() {
		for _, path := range textPaths {
			if f := v.Get(path); truthy(f) {
				return f.String()
			}
		}
	}

	return strings.TrimRight(string(pretty.PrettyOptions([]byte(v.Raw), prettyOptions)), "\n")
}

// truthy follows the usual loose notion: missing, null, false, 0 and ""
// are all empty.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null:
		return false
	case gjson.False:
		return false
	case gjson.Number:
		return v.Float() != 0
	case gjson.String:
		return v.Str != ""
	default:
		return v.Exists()
	}
}
