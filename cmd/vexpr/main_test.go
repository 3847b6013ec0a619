package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matryer/is"
	"gopkg.in/yaml.v3"
)

func runCmd(t *testing.T, stdin string, args ...string) (map[string]interface{}, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(strings.NewReader(stdin), &stdout, &stderr, append([]string{"vexpr"}, args...))

	var out map[string]interface{}
	if stdout.Len() > 0 {
		if decErr := yaml.Unmarshal(stdout.Bytes(), &out); decErr != nil {
			t.Fatalf("decode %q: %v", stdout.String(), decErr)
		}
	}
	return out, stderr.String(), err
}

func TestRunJSON(t *testing.T) {
	is := is.New(t)

	out, _, err := runCmd(t, `{"expression": "a + 1", "scope": {"a": 5}}`)
	is.NoErr(err)
	is.Equal(out["result"], 6)
}

func TestRunUndefinedResult(t *testing.T) {
	is := is.New(t)

	for _, format := range []string{"json", "yaml"} {
		var stdout, stderr bytes.Buffer
		err := run(strings.NewReader(`{"expression": "missing.path"}`), &stdout, &stderr,
			[]string{"vexpr", "-o", format})
		is.NoErr(err)

		var out map[string]interface{}
		is.NoErr(yaml.Unmarshal(stdout.Bytes(), &out))
		v, ok := out["result"]
		is.True(ok) // result present even when undefined
		is.Equal(v, nil)
	}
}

func TestRunYAMLWithFlag(t *testing.T) {
	is := is.New(t)

	out, _, err := runCmd(t, "scope:\n  user:\n    name: Ann\n", "-e", "user.name", "-o", "yaml")
	is.NoErr(err)
	is.Equal(out["result"], "Ann")
}

func TestRunSet(t *testing.T) {
	is := is.New(t)

	out, _, err := runCmd(t, `{"expression": "a.b", "scope": {"a": {"b": 1}}, "set": 2}`)
	is.NoErr(err)
	is.Equal(out["scope"], map[string]interface{}{"a": map[string]interface{}{"b": 2}})
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"syntax error", `{"expression": "a +"}`, nil, "S0201"},
		{"missing expression", `{"scope": {}}`, nil, "missing expression"},
		{"invalid document", `{`, nil, "invalid request"},
		{"not assignable", `{"expression": "a.b", "scope": {}, "set": 1}`, nil, "D2002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			out, _, err := runCmd(t, tt.stdin, tt.args...)
			is.True(err != nil)
			is.True(strings.Contains(out["error"].(string), tt.want))
		})
	}
}

func TestRunUnknownFormat(t *testing.T) {
	is := is.New(t)

	_, stderr, err := runCmd(t, `{"expression": "1"}`, "-o", "xml")
	is.True(err != nil)
	is.True(strings.Contains(stderr, "unknown output format"))
}

func TestRunBench(t *testing.T) {
	is := is.New(t)

	out, stderr, err := runCmd(t, `{"expression": "a * 2", "scope": {"a": 2}}`, "-bench", "1500")
	is.NoErr(err)
	is.Equal(out["result"], 4)
	is.True(strings.Contains(stderr, "1,500 evaluations"))
	is.True(strings.Contains(stderr, "1,500 hits"))
}
