package evaluator

import (
	"fmt"
	"math"
	"reflect"

	"github.com/jjsquad/vue/pkg/functions"
	"github.com/jjsquad/vue/pkg/types"
)

// builtinFunc is the signature of the globals implemented by this package.
type builtinFunc func(args []interface{}) (interface{}, error)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func (e *Evaluator) evalCall(node *types.ASTNode, scope interface{}) (interface{}, error) {
	callee, err := e.evalNode(node.LHS, scope)
	if err != nil {
		return nil, err
	}
	if !isFunction(callee) {
		return nil, types.NewError(types.ErrInvokeNonFunction,
			describeNode(node.LHS)+" is not a function", node.Position).WithToken(describeNode(node.LHS))
	}

	args := make([]interface{}, len(node.Arguments))
	for i, arg := range node.Arguments {
		v, err := e.evalNode(arg, scope)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	result, err := callFunction(callee, args)
	if err != nil {
		return nil, types.NewError(types.ErrCallFailed,
			fmt.Sprintf("%s: %v", describeNode(node.LHS), err), node.Position).WithCause(err)
	}
	return result, nil
}

// callFunction invokes fn with evaluated arguments. Go functions are called
// through reflection; a panic inside the callee is returned as an error.
func callFunction(fn interface{}, args []interface{}) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	switch f := fn.(type) {
	case builtinFunc:
		return f(args)
	case functions.CustomFunc:
		return f(args...)
	}

	rv := reflect.ValueOf(fn)
	in, err := buildArgs(rv.Type(), args)
	if err != nil {
		return nil, err
	}
	return collectResults(rv.Call(in))
}

// buildArgs converts arguments to the parameter types of ft. Missing
// arguments are zero values and extra arguments are dropped unless ft is
// variadic.
func buildArgs(ft reflect.Type, args []interface{}) ([]reflect.Value, error) {
	numIn := ft.NumIn()
	fixed := numIn
	if ft.IsVariadic() {
		fixed--
	}

	in := make([]reflect.Value, 0, numIn)
	for i := 0; i < fixed; i++ {
		var arg interface{}
		if i < len(args) {
			arg = args[i]
		}
		v, err := convertValue(arg, ft.In(i))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		in = append(in, v)
	}

	if ft.IsVariadic() {
		elem := ft.In(fixed).Elem()
		for i := fixed; i < len(args); i++ {
			v, err := convertValue(args[i], elem)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i+1, err)
			}
			in = append(in, v)
		}
	}
	return in, nil
}

// collectResults maps the results of a reflective call: (), (v), (error)
// and (v, error) are supported.
func collectResults(out []reflect.Value) (interface{}, error) {
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			return nil, out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return fromReflect(out[0]), nil
	default:
		return nil, fmt.Errorf("function returns %d values", len(out))
	}
}

// convertValue converts an evaluated value to the Go type t.
func convertValue(value interface{}, t reflect.Type) (reflect.Value, error) {
	if c := classify(value); c == classUndefined || c == classNull {
		return reflect.Zero(t), nil
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return convertNumber(value, t)
	case reflect.String:
		return reflect.ValueOf(toString(value)).Convert(t), nil
	case reflect.Bool:
		return reflect.ValueOf(isTruthy(value)).Convert(t), nil
	case reflect.Slice:
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			out := reflect.MakeSlice(t, rv.Len(), rv.Len())
			for i := 0; i < rv.Len(); i++ {
				v, err := convertValue(fromReflect(rv.Index(i)), t.Elem())
				if err != nil {
					return reflect.Value{}, err
				}
				out.Index(i).Set(v)
			}
			return out, nil
		}
	case reflect.Map:
		if rv.Kind() == reflect.Map && t.Key().Kind() == reflect.String && rv.Type().Key().Kind() == reflect.String {
			out := reflect.MakeMapWithSize(t, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				v, err := convertValue(fromReflect(iter.Value()), t.Elem())
				if err != nil {
					return reflect.Value{}, err
				}
				out.SetMapIndex(reflect.ValueOf(iter.Key().String()).Convert(t.Key()), v)
			}
			return out, nil
		}
	}

	if rv.Type().ConvertibleTo(t) && rv.Kind() == t.Kind() {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", value, t)
}

// convertNumber converts value to the numeric type t. Values that cannot be
// represented exactly in an integer type are an error, as is NaN produced
// from a non-numeric value.
func convertNumber(value interface{}, t reflect.Type) (reflect.Value, error) {
	n := toNumber(value)
	if math.IsNaN(n) {
		if f, ok := toFloat(value); !ok || !math.IsNaN(f) || !isFloatKind(t.Kind()) {
			return reflect.Value{}, fmt.Errorf("cannot use %s as %s", toString(value), t)
		}
	}

	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		if !math.IsInf(n, 0) && !math.IsNaN(n) && out.OverflowFloat(n) {
			return reflect.Value{}, fmt.Errorf("%s overflows %s", toString(value), t)
		}
		out.SetFloat(n)
		return out, nil
	}

	if math.IsInf(n, 0) || n != math.Trunc(n) {
		return reflect.Value{}, fmt.Errorf("cannot use %s as %s", toString(value), t)
	}
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n < 0 || n >= 1<<64 || out.OverflowUint(uint64(n)) {
			return reflect.Value{}, fmt.Errorf("%s overflows %s", toString(value), t)
		}
		out.SetUint(uint64(n))
	default:
		if n < -(1<<63) || n >= 1<<63 || out.OverflowInt(int64(n)) {
			return reflect.Value{}, fmt.Errorf("%s overflows %s", toString(value), t)
		}
		out.SetInt(int64(n))
	}
	return out, nil
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
