package evaluator

import (
	"fmt"

	"github.com/jjsquad/vue/pkg/types"
)

// evalNode evaluates a single AST node against scope.
func (e *Evaluator) evalNode(node *types.ASTNode, scope interface{}) (interface{}, error) {
	switch node.Type {
	case types.NodeString:
		return node.StrValue, nil
	case types.NodeNumber:
		return node.NumValue, nil
	case types.NodeBoolean:
		return node.Value, nil
	case types.NodeNull:
		return types.NullValue, nil
	case types.NodeUndefined:
		return nil, nil
	case types.NodeIdentifier:
		return e.evalIdentifier(node, scope)
	case types.NodeMember:
		obj, key, err := e.evalMemberParts(node, scope)
		if err != nil {
			return nil, err
		}
		return getMember(obj, key), nil
	case types.NodeUnary:
		return e.evalUnary(node, scope)
	case types.NodeBinary:
		return e.evalBinary(node, scope)
	case types.NodeLogical:
		return e.evalLogical(node, scope)
	case types.NodeCondition:
		return e.evalCondition(node, scope)
	case types.NodeAssign:
		return e.evalAssign(node, scope)
	case types.NodeCall:
		return e.evalCall(node, scope)
	case types.NodeArray:
		return e.evalArray(node, scope)
	case types.NodeObject:
		return e.evalObject(node, scope)
	default:
		return nil, types.NewError(types.ErrSyntaxError, fmt.Sprintf("Unsupported node type: %s", node.Type), node.Position)
	}
}

// evalIdentifier resolves a bare identifier: the scope, a helper function
// or a global.
func (e *Evaluator) evalIdentifier(node *types.ASTNode, scope interface{}) (interface{}, error) {
	name := node.StrValue
	if isScopeIdent(name) {
		return scope, nil
	}
	if fn, ok := e.opts.Functions.Lookup(name); ok {
		return fn, nil
	}
	if v, ok := globals[name]; ok {
		return v, nil
	}
	return nil, types.NewError(types.ErrUnknownIdentifier, name+" is not defined", node.Position).WithToken(name)
}

// evalMemberParts evaluates the object and the property key of a member node.
func (e *Evaluator) evalMemberParts(node *types.ASTNode, scope interface{}) (interface{}, string, error) {
	return e.memberParts(node, scope, e.evalNode)
}

// memberParts evaluates the object of a member node with parent and its key
// with evalNode.
func (e *Evaluator) memberParts(node *types.ASTNode, scope interface{},
	parent func(*types.ASTNode, interface{}) (interface{}, error)) (interface{}, string, error) {
	obj, err := parent(node.LHS, scope)
	if err != nil {
		return nil, "", err
	}
	if !node.Computed {
		return obj, node.StrValue, nil
	}
	prop, err := e.evalNode(node.RHS, scope)
	if err != nil {
		return nil, "", err
	}
	return obj, propertyKey(prop), nil
}

func (e *Evaluator) evalCondition(node *types.ASTNode, scope interface{}) (interface{}, error) {
	cond, err := e.evalNode(node.LHS, scope)
	if err != nil {
		return nil, err
	}
	if isTruthy(cond) {
		return e.evalNode(node.RHS, scope)
	}
	return e.evalNode(node.Expressions[0], scope)
}

// evalLogical evaluates && and || with short-circuiting. The result is one
// of the operand values, not a boolean.
func (e *Evaluator) evalLogical(node *types.ASTNode, scope interface{}) (interface{}, error) {
	left, err := e.evalNode(node.LHS, scope)
	if err != nil {
		return nil, err
	}
	switch node.StrValue {
	case "&&":
		if !isTruthy(left) {
			return left, nil
		}
	case "||":
		if isTruthy(left) {
			return left, nil
		}
	}
	return e.evalNode(node.RHS, scope)
}

// evalAssign evaluates an assignment inside a getter and returns the value
// that was stored.
func (e *Evaluator) evalAssign(node *types.ASTNode, scope interface{}) (interface{}, error) {
	target := node.LHS
	if err := checkTarget(target); err != nil {
		return nil, err
	}

	var current interface{}
	op := node.StrValue
	if op != "=" {
		var err error
		if current, err = e.evalNode(target, scope); err != nil {
			return nil, err
		}
	}

	value, err := e.evalNode(node.RHS, scope)
	if err != nil {
		return nil, err
	}

	if op != "=" {
		value = binaryOp(op[:len(op)-1], current, value)
	}

	if err := e.assign(target, scope, value); err != nil {
		return nil, err
	}
	return value, nil
}

// assign stores value into the location denoted by target, a member node.
func (e *Evaluator) assign(target *types.ASTNode, scope, value interface{}) error {
	obj, key, err := e.memberParts(target, scope, e.evalRef)
	if err != nil {
		return err
	}
	if err := setMember(obj, key, value); err != nil {
		return types.NewError(types.ErrCannotSet,
			fmt.Sprintf("Cannot set %s: %v", describeNode(target), err), target.Position).WithCause(err)
	}
	return nil
}

// evalRef evaluates the parent chain of an assignment target. Struct and
// array values reached through a pointer are returned by address so that
// stores into them are seen by the scope.
func (e *Evaluator) evalRef(node *types.ASTNode, scope interface{}) (interface{}, error) {
	if node.Type != types.NodeMember {
		return e.evalNode(node, scope)
	}
	obj, key, err := e.memberParts(node, scope, e.evalRef)
	if err != nil {
		return nil, err
	}
	return memberRef(obj, key), nil
}

func (e *Evaluator) evalArray(node *types.ASTNode, scope interface{}) (interface{}, error) {
	result := make([]interface{}, len(node.Expressions))
	for i, item := range node.Expressions {
		v, err := e.evalNode(item, scope)
		if err != nil {
			return nil, err
		}
		result[i] = storable(v)
	}
	return result, nil
}

func (e *Evaluator) evalObject(node *types.ASTNode, scope interface{}) (interface{}, error) {
	result := make(map[string]interface{}, len(node.Expressions))
	for _, pair := range node.Expressions {
		v, err := e.evalNode(pair.RHS, scope)
		if err != nil {
			return nil, err
		}
		result[pair.StrValue] = storable(v)
	}
	return result, nil
}

// describeNode renders a reference node for error messages, e.g. scope.a.b
func describeNode(node *types.ASTNode) string {
	if node == nil {
		return "expression"
	}
	switch node.Type {
	case types.NodeIdentifier:
		return node.StrValue
	case types.NodeMember:
		if node.Computed {
			return describeNode(node.LHS) + "[...]"
		}
		return describeNode(node.LHS) + "." + node.StrValue
	case types.NodeCall:
		return describeNode(node.LHS) + "(...)"
	default:
		return "expression"
	}
}
