//go:build js && wasm

// Command vexpr-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `vexpr` object with the following API:
//
//	vexpr.version()                 → string
//	vexpr.eval(expr, scopeJSON)     → resultJSON  (throws on error)
//	vexpr.compile(expr, needSet)    → compiled    (throws on error)
//
//	compiled.get(scopeJSON)             → resultJSON
//	compiled.set(scopeJSON, valueJSON)  → updated scopeJSON
//	compiled.body()                     → rewritten body
//	compiled.paths()                    → accessor paths
//
// Scopes cross the boundary as JSON, so set returns the updated copy.
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o vexpr.wasm ./cmd/wasm/js/
//
// Usage:
//
//	const expr = vexpr.compile('form.email', true)
//	const scope = expr.set(JSON.stringify({form: {}}), JSON.stringify('x@y.z'))
//	console.log(JSON.parse(expr.get(scope))) // 'x@y.z'
package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/jjsquad/vue"
	"github.com/jjsquad/vue/pkg/types"
)

// jsThrow panics with a JS Error so the caller receives a thrown exception.
func jsThrow(msg string) {
	panic(js.Global().Get("Error").New(msg))
}

func decodeJSON(name, raw string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		jsThrow(fmt.Sprintf("%s: invalid JSON: %v", name, err))
	}
	return v
}

func encodeJSON(name string, v interface{}) string {
	out, err := json.Marshal(v)
	if err != nil {
		jsThrow(fmt.Sprintf("%s: marshal: %v", name, err))
	}
	return string(out)
}

// jsEval implements vexpr.eval(expr, scopeJSON) → resultJSON.
func jsEval(_ js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		jsThrow("vexpr.eval requires 2 arguments: expression (string) and scope (JSON string)")
	}
	scope := decodeJSON("vexpr.eval", args[1].String())

	result, err := vue.Eval(args[0].String(), scope)
	if err != nil {
		jsThrow(fmt.Sprintf("vexpr.eval: %v", err))
	}
	return encodeJSON("vexpr.eval", result)
}

// jsCompile implements vexpr.compile(expr, needSet) → compiled.
func jsCompile(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("vexpr.compile requires 1 argument: expression (string)")
	}
	needSet := len(args) > 1 && args[1].Truthy()

	expr, err := vue.Compile(args[0].String(), needSet)
	if err != nil {
		jsThrow(fmt.Sprintf("vexpr.compile: %v", err))
	}
	return compiled(expr)
}

func compiled(expr *types.Expression) js.Value {
	get := js.FuncOf(func(_ js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			jsThrow("compiled.get requires 1 argument: scope (JSON string)")
		}
		r, err := expr.Get(decodeJSON("compiled.get", args[0].String()))
		if err != nil {
			jsThrow(fmt.Sprintf("compiled.get: %v", err))
		}
		return encodeJSON("compiled.get", r)
	})

	set := js.FuncOf(func(_ js.Value, args []js.Value) interface{} {
		if len(args) < 2 {
			jsThrow("compiled.set requires 2 arguments: scope and value (JSON strings)")
		}
		scope := decodeJSON("compiled.set", args[0].String())
		if err := expr.Set(scope, decodeJSON("compiled.set", args[1].String())); err != nil {
			jsThrow(fmt.Sprintf("compiled.set: %v", err))
		}
		return encodeJSON("compiled.set", scope)
	})

	body := js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
		return expr.Body()
	})

	pathsFn := js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
		found := expr.Paths()
		out := make([]interface{}, len(found))
		for i, p := range found {
			out[i] = p
		}
		return out
	})

	return js.ValueOf(map[string]interface{}{
		"get":   get,
		"set":   set,
		"body":  body,
		"paths": pathsFn,
	})
}

func main() {
	api := map[string]interface{}{
		"eval":    js.FuncOf(jsEval),
		"compile": js.FuncOf(jsCompile),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
			return vue.Version()
		}),
	}
	js.Global().Set("vexpr", js.ValueOf(api))

	// The JS event loop owns execution from here.
	select {}
}
