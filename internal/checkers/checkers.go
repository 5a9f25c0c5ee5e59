// Package checkers provides quicktest checkers shared by the test suites.
package checkers

import (
	"encoding/json"
	"fmt"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
	"github.com/yalp/jsonpath"
)

// JSONPathEquals returns a checker that reads the JSON document got (a string
// or []byte), evaluates path on it and compares the value with want.
//
//	c.Assert(body, checkers.JSONPathEquals("$.person1Share"), float64(30))
//
// Numbers decode as float64.
func JSONPathEquals(path string) qt.Checker {
	return &jsonPathChecker{
		argNames: []string{"got", "want"},
		path:     path,
	}
}

type jsonPathChecker struct {
	argNames []string
	path     string
}

func (c *jsonPathChecker) ArgNames() []string { return c.argNames }

func (c *jsonPathChecker) Check(got any, args []any, note func(key string, value any)) error {
	var data []byte
	switch v := got.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return qt.BadCheckf("got must be a string or []byte, not %T", got)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("cannot decode JSON: %w", err)
	}
	val, err := jsonpath.Read(doc, c.path)
	if err != nil {
		note("path", c.path)
		return fmt.Errorf("cannot read JSON path: %w", err)
	}
	if diff := cmp.Diff(val, args[0]); diff != "" {
		note("path", c.path)
		note("value", val)
		return fmt.Errorf("JSON path value mismatch:\n%s", diff)
	}
	return nil
}
