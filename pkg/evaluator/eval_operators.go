package evaluator

import (
	"math"
	"reflect"

	"github.com/jjsquad/vue/pkg/types"
)

func (e *Evaluator) evalUnary(node *types.ASTNode, scope interface{}) (interface{}, error) {
	operand, err := e.evalNode(node.LHS, scope)
	if err != nil {
		return nil, err
	}

	switch node.StrValue {
	case "!":
		return !isTruthy(operand), nil
	case "-":
		return -toNumber(operand), nil
	case "+":
		return toNumber(operand), nil
	case "typeof":
		return typeOf(operand), nil
	default: // void
		return nil, nil
	}
}

func (e *Evaluator) evalBinary(node *types.ASTNode, scope interface{}) (interface{}, error) {
	left, err := e.evalNode(node.LHS, scope)
	if err != nil {
		return nil, err
	}

	right, err := e.evalNode(node.RHS, scope)
	if err != nil {
		return nil, err
	}

	return binaryOp(node.StrValue, left, right), nil
}

// binaryOp applies a binary operator to two evaluated operands.
func binaryOp(op string, left, right interface{}) interface{} {
	// Fast-path for the most common case: both operands are float64.
	if lf, ok := left.(float64); ok {
		if rf, ok := right.(float64); ok {
			if v, ok := numericOp(op, lf, rf); ok {
				return v
			}
		}
	}

	switch op {
	case "+":
		return add(left, right)
	case "-", "*", "/", "%":
		v, _ := numericOp(op, toNumber(left), toNumber(right))
		return v
	case "<", "<=", ">", ">=":
		return compare(op, left, right)
	case "==":
		return looseEquals(left, right)
	case "!=":
		return !looseEquals(left, right)
	case "===":
		return strictEquals(left, right)
	case "!==":
		return !strictEquals(left, right)
	case "in":
		return hasMember(right, propertyKey(left))
	default:
		return nil
	}
}

// numericOp applies op to two numbers. ok is false for operators that are
// not purely numeric.
func numericOp(op string, l, r float64) (interface{}, bool) {
	switch op {
	case "+":
		return l + r, true
	case "-":
		return l - r, true
	case "*":
		return l * r, true
	case "/":
		return l / r, true
	case "%":
		return math.Mod(l, r), true
	case "<":
		return l < r, true
	case "<=":
		return l <= r, true
	case ">":
		return l > r, true
	case ">=":
		return l >= r, true
	case "==", "===":
		return l == r, true
	case "!=", "!==":
		return l != r, true
	default:
		return nil, false
	}
}

// add implements "+": string concatenation when either primitive operand is
// a string, numeric addition otherwise.
func add(left, right interface{}) interface{} {
	lp, rp := toPrimitive(left), toPrimitive(right)
	_, ls := asString(lp)
	_, rs := asString(rp)
	if ls || rs {
		return toString(lp) + toString(rp)
	}
	return toNumber(lp) + toNumber(rp)
}

// compare implements the relational operators. Two strings compare
// lexicographically; everything else compares as numbers and any NaN makes
// the result false.
func compare(op string, left, right interface{}) bool {
	lp, rp := toPrimitive(left), toPrimitive(right)
	if ls, ok := asString(lp); ok {
		if rs, ok := asString(rp); ok {
			switch op {
			case "<":
				return ls < rs
			case "<=":
				return ls <= rs
			case ">":
				return ls > rs
			default:
				return ls >= rs
			}
		}
	}
	v, _ := numericOp(op, toNumber(lp), toNumber(rp))
	return v.(bool)
}

// valueClass groups values the way typeof does, with null split from objects.
type valueClass uint8

const (
	classUndefined valueClass = iota
	classNull
	classBoolean
	classNumber
	classString
	classFunction
	classObject
)

func classify(v interface{}) valueClass {
	switch v.(type) {
	case nil:
		return classUndefined
	case types.Null:
		return classNull
	case bool:
		return classBoolean
	case string:
		return classString
	}
	if _, ok := toFloat(v); ok {
		return classNumber
	}
	if isFunction(v) {
		return classFunction
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return classString
	case reflect.Bool:
		return classBoolean
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		if rv.IsNil() {
			return classNull
		}
	}
	return classObject
}

// strictEquals implements ===. Numbers of any Go kind compare by value,
// reference-like values by identity and other values structurally.
func strictEquals(left, right interface{}) bool {
	lc, rc := classify(left), classify(right)
	if lc != rc {
		return false
	}

	switch lc {
	case classUndefined, classNull:
		return true
	case classNumber:
		lf, _ := toFloat(left)
		rf, _ := toFloat(right)
		return lf == rf
	case classString:
		ls, _ := asString(left)
		rs, _ := asString(right)
		return ls == rs
	case classBoolean:
		return reflect.ValueOf(left).Bool() == reflect.ValueOf(right).Bool()
	}

	lv, rv := reflect.ValueOf(left), reflect.ValueOf(right)
	if lv.Type() != rv.Type() {
		return false
	}
	switch lv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return lv.Pointer() == rv.Pointer()
	case reflect.Slice:
		return lv.Pointer() == rv.Pointer() && lv.Len() == rv.Len()
	default:
		return reflect.DeepEqual(left, right)
	}
}

// looseEquals implements ==: null and undefined equal each other, booleans
// and strings are compared as numbers against numbers, and objects are
// reduced to primitives when compared with one.
func looseEquals(left, right interface{}) bool {
	lc, rc := classify(left), classify(right)
	if lc == rc {
		return strictEquals(left, right)
	}

	lNullish := lc == classUndefined || lc == classNull
	rNullish := rc == classUndefined || rc == classNull
	if lNullish || rNullish {
		return lNullish && rNullish
	}

	switch {
	case lc == classBoolean:
		return looseEquals(toNumber(left), right)
	case rc == classBoolean:
		return looseEquals(left, toNumber(right))
	case lc == classNumber && rc == classString:
		return toNumber(left) == toNumber(right)
	case lc == classString && rc == classNumber:
		return toNumber(left) == toNumber(right)
	case lc == classObject || lc == classFunction:
		if rc == classObject || rc == classFunction {
			return false
		}
		return looseEquals(toString(left), right)
	case rc == classObject || rc == classFunction:
		return looseEquals(left, toString(right))
	}
	return false
}
