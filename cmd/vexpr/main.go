// Command vexpr evaluates a template expression against a scope.
//
// It reads one request document (YAML or JSON) from stdin or -f and writes
// one response document to stdout.
//
//	request:  { "expression": "<text>", "scope": <any value>, "set": <any value> }
//	response: { "result": <any value> }            on success
//	          { "scope":  <any value> }            after an assignment ("set" present)
//	          { "error":  "<message>" }            on failure (exit code 1)
//
// Usage:
//
//	echo '{"expression":"a + 1","scope":{"a":5}}' | vexpr
//	echo 'scope: {user: {name: Ann}}' | vexpr -e 'user.name' -o yaml
//	vexpr -f request.yaml -bench 100000
//
// The command has no platform dependencies and also builds for wasip1:
//
//	GOOS=wasip1 GOARCH=wasm go build -o vexpr.wasm ./cmd/vexpr/
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/jjsquad/vue/pkg/compiler"
)

type request struct {
	Expression string      `yaml:"expression"`
	Scope      interface{} `yaml:"scope"`
	Set        *yaml.Node  `yaml:"set"`
}

type response struct {
	// Result is set for every evaluation; an undefined result is null.
	Result *interface{} `json:"result,omitempty" yaml:"result,omitempty"`
	Scope  interface{} `json:"scope,omitempty" yaml:"scope,omitempty"`
	Error  string      `json:"error,omitempty" yaml:"error,omitempty"`
}

func main() {
	if err := run(os.Stdin, os.Stdout, os.Stderr, os.Args); err != nil {
		os.Exit(1)
	}
}

// run executes the command. Failures are also written to stdout as a
// response document.
func run(stdin io.Reader, stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		expression = flags.String("e", "", "expression (overrides the request's)")
		file       = flags.String("f", "", "request file (default stdin)")
		output     = flags.String("o", "json", "output format: json or yaml")
		bench      = flags.Int("bench", 0, "evaluate the expression `n` times and report timings on stderr")
		cacheSize  = flags.Int("cache", 0, "compilation cache capacity")
		debug      = flags.Bool("debug", false, "log debug output on stderr")
	)
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	enc, err := newEncoder(stdout, *output)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return err
	}

	resp, err := handle(stdin, stderr, options{
		expression: *expression,
		file:       *file,
		bench:      *bench,
		cacheSize:  *cacheSize,
		debug:      *debug,
	})
	if err != nil {
		resp = response{Error: err.Error()}
	}
	if encErr := enc(resp); encErr != nil {
		return errors.Wrap(encErr, "write response")
	}
	return err
}

type options struct {
	expression string
	file       string
	bench      int
	cacheSize  int
	debug      bool
}

func handle(stdin io.Reader, stderr io.Writer, opts options) (response, error) {
	req, err := readRequest(stdin, opts.file)
	if err != nil {
		return response{}, err
	}
	if opts.expression != "" {
		req.Expression = opts.expression
	}
	if req.Expression == "" {
		return response{}, errors.New("missing expression")
	}

	level := slog.LevelWarn
	if opts.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	c, err := compiler.New(
		compiler.WithLogger(logger),
		compiler.WithDebug(opts.debug),
		compiler.WithCacheSize(opts.cacheSize),
	)
	if err != nil {
		return response{}, err
	}

	expr, err := c.Compile(req.Expression, req.Set != nil)
	if err != nil {
		return response{}, err
	}

	if req.Set != nil {
		var value interface{}
		if err := req.Set.Decode(&value); err != nil {
			return response{}, errors.Wrap(err, "decode set value")
		}
		if err := expr.Set(req.Scope, value); err != nil {
			return response{}, errors.Wrapf(err, "assign %q", req.Expression)
		}
		return response{Scope: req.Scope}, nil
	}

	result, err := expr.Get(req.Scope)
	if err != nil {
		return response{}, errors.Wrapf(err, "evaluate %q", req.Expression)
	}

	if opts.bench > 0 {
		if err := runBench(stderr, c, req.Expression, req.Scope, opts.bench); err != nil {
			return response{}, err
		}
	}
	return response{Result: &result}, nil
}

func readRequest(stdin io.Reader, file string) (request, error) {
	r := stdin
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return request{}, errors.Wrap(err, "open request")
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return request{}, errors.Wrap(err, "read request")
	}

	// JSON documents are valid YAML.
	var req request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return request{}, errors.Wrap(err, "invalid request")
	}
	return req, nil
}

// runBench compiles and evaluates the expression n times, as a template
// re-render would, and reports the timings.
func runBench(w io.Writer, c *compiler.Compiler, text string, scope interface{}, n int) error {
	start := time.Now()
	for i := 0; i < n; i++ {
		expr, err := c.Compile(text, false)
		if err != nil {
			return err
		}
		if _, err := expr.Get(scope); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	stats := c.Cache().Stats()
	fmt.Fprintf(w, "%s evaluations in %s (%s/op)\n",
		humanize.Comma(int64(n)), elapsed.Round(time.Microsecond), elapsed/time.Duration(n))
	fmt.Fprintf(w, "cache: %s hits, %s misses, %s evictions\n",
		humanize.Comma(int64(stats.Hits)), humanize.Comma(int64(stats.Misses)), humanize.Comma(int64(stats.Evictions)))
	return nil
}

func newEncoder(w io.Writer, format string) (func(response) error, error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		return func(r response) error { return enc.Encode(r) }, nil
	case "yaml":
		return func(r response) error {
			enc := yaml.NewEncoder(w)
			defer enc.Close()
			return enc.Encode(r)
		}, nil
	default:
		return nil, errors.Errorf("unknown output format %q", format)
	}
}
