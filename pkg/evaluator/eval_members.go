package evaluator

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jjsquad/vue/pkg/types"
)

// getMember reads property key of obj. A missing property, or any property
// of null or undefined, is nil.
func getMember(obj interface{}, key string) interface{} {
	switch o := obj.(type) {
	case nil, types.Null:
		return nil
	case map[string]interface{}:
		if v, ok := o[key]; ok {
			return normalize(v)
		}
		if key == "length" {
			return float64(len(o))
		}
		return nil
	case []interface{}:
		if key == "length" {
			return float64(len(o))
		}
		if i, ok := arrayIndex(key); ok && i < len(o) {
			return normalize(o[i])
		}
		return nil
	case string:
		return stringMember(o, key)
	}
	return reflectMember(reflect.ValueOf(obj), key)
}

// stringMember indexes a string by rune.
func stringMember(s, key string) interface{} {
	if key == "length" {
		return float64(utf8.RuneCountInString(s))
	}
	if i, ok := arrayIndex(key); ok {
		for j, r := range []rune(s) {
			if j == i {
				return string(r)
			}
		}
	}
	return nil
}

func reflectMember(orig reflect.Value, key string) interface{} {
	rv := orig
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			if v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key())); v.IsValid() {
				return fromReflect(v)
			}
		}
		if key == "length" {
			return float64(rv.Len())
		}
	case reflect.Struct:
		if f, ok := structField(rv, key); ok {
			return fromReflect(f)
		}
	case reflect.Slice, reflect.Array:
		if key == "length" {
			return float64(rv.Len())
		}
		if i, ok := arrayIndex(key); ok && i < rv.Len() {
			return fromReflect(rv.Index(i))
		}
		return nil
	case reflect.String:
		return stringMember(rv.String(), key)
	}

	if m := methodByName(orig, key); m.IsValid() {
		return m.Interface()
	}
	return nil
}

// memberRef reads property key of obj like getMember, except that an
// addressable struct or array member is returned as a pointer to it.
func memberRef(obj interface{}, key string) interface{} {
	switch obj.(type) {
	case nil, types.Null, string, map[string]interface{}, []interface{}:
		return getMember(obj, key)
	}

	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	var member reflect.Value
	switch rv.Kind() {
	case reflect.Struct:
		member, _ = structField(rv, key)
	case reflect.Slice, reflect.Array:
		if i, ok := arrayIndex(key); ok && i < rv.Len() {
			member = rv.Index(i)
		}
	}
	if member.IsValid() && member.CanAddr() && member.CanInterface() {
		if k := member.Kind(); k == reflect.Struct || k == reflect.Array {
			return member.Addr().Interface()
		}
	}
	return getMember(obj, key)
}

// structField finds an exported field by json tag, exact name or name with
// an upper-cased first letter, so that scope.name reads field Name.
func structField(rv reflect.Value, key string) (reflect.Value, bool) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag == key {
			return rv.Field(i), true
		}
	}

	for _, name := range candidateNames(key) {
		sf, ok := t.FieldByName(name)
		if !ok || !sf.IsExported() {
			continue
		}
		f, err := rv.FieldByIndexErr(sf.Index)
		if err != nil {
			return reflect.Value{}, false
		}
		return f, true
	}
	return reflect.Value{}, false
}

func methodByName(rv reflect.Value, key string) reflect.Value {
	if !rv.IsValid() {
		return reflect.Value{}
	}
	for _, name := range candidateNames(key) {
		if m := rv.MethodByName(name); m.IsValid() {
			return m
		}
	}
	return reflect.Value{}
}

func candidateNames(key string) []string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return []string{key}
	}
	return []string{key, string(unicode.ToUpper(r)) + key[size:]}
}

// arrayIndex parses a canonical non-negative integer key.
func arrayIndex(key string) (int, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(key)
	return i, err == nil
}

// hasMember implements the in operator.
func hasMember(obj interface{}, key string) bool {
	switch o := obj.(type) {
	case nil, types.Null, string:
		return false
	case map[string]interface{}:
		_, ok := o[key]
		return ok
	case []interface{}:
		i, ok := arrayIndex(key)
		return ok && i < len(o)
	}

	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		return rv.Type().Key().Kind() == reflect.String &&
			rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key())).IsValid()
	case reflect.Struct:
		_, ok := structField(rv, key)
		return ok
	case reflect.Slice, reflect.Array:
		i, ok := arrayIndex(key)
		return ok && i < rv.Len()
	}
	return false
}

var (
	errNoParent       = errors.New("parent is null or undefined")
	errNotAddressable = errors.New("parent is not addressable")
	errOutOfRange     = errors.New("index out of range")
)

// setMember stores value as property key of obj.
func setMember(obj interface{}, key string, value interface{}) error {
	switch o := obj.(type) {
	case nil, types.Null:
		return errNoParent
	case map[string]interface{}:
		if o == nil {
			return errNoParent
		}
		o[key] = storable(value)
		return nil
	case []interface{}:
		i, ok := arrayIndex(key)
		if !ok || i >= len(o) {
			return errOutOfRange
		}
		o[i] = storable(value)
		return nil
	}

	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return errNoParent
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		kt := rv.Type().Key()
		if kt.Kind() != reflect.String {
			return fmt.Errorf("map key type %s is not a string", kt)
		}
		if rv.IsNil() {
			return errNoParent
		}
		v, err := convertValue(value, rv.Type().Elem())
		if err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(key).Convert(kt), v)
		return nil
	case reflect.Struct:
		f, ok := structField(rv, key)
		if !ok {
			return fmt.Errorf("%s has no field %q", rv.Type(), key)
		}
		if !f.CanSet() {
			return errNotAddressable
		}
		return setValue(f, value)
	case reflect.Slice, reflect.Array:
		i, ok := arrayIndex(key)
		if !ok || i >= rv.Len() {
			return errOutOfRange
		}
		elem := rv.Index(i)
		if !elem.CanSet() {
			return errNotAddressable
		}
		return setValue(elem, value)
	default:
		return fmt.Errorf("cannot set property %q on %s", key, rv.Type())
	}
}

func setValue(dst reflect.Value, value interface{}) error {
	v, err := convertValue(value, dst.Type())
	if err != nil {
		return err
	}
	dst.Set(v)
	return nil
}
