package functions_test

import (
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/jjsquad/vue/pkg/functions"
)

func TestRegistry(t *testing.T) {
	is := is.New(t)

	r, err := functions.NewRegistry(
		functions.FunctionDef{Name: "upper", Fn: strings.ToUpper},
		functions.FunctionDef{Name: "id", Fn: functions.CustomFunc(func(args ...interface{}) (interface{}, error) {
			return args[0], nil
		})},
	)
	is.NoErr(err)
	is.Equal(r.Len(), 2)
	is.Equal(r.Names(), []string{"id", "upper"})

	_, ok := r.Lookup("upper")
	is.True(ok)
	_, ok = r.Lookup("lower")
	is.True(!ok)
}

func TestRegistryWithDoesNotMutate(t *testing.T) {
	is := is.New(t)

	base, err := functions.NewRegistry(functions.FunctionDef{Name: "a", Fn: strings.TrimSpace})
	is.NoErr(err)
	ext, err := base.With(functions.FunctionDef{Name: "b", Fn: strings.ToLower})
	is.NoErr(err)

	is.Equal(base.Len(), 1)
	is.Equal(ext.Len(), 2)
}

func TestRegistryRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		def  functions.FunctionDef
	}{
		{"empty name", functions.FunctionDef{Name: "", Fn: strings.ToUpper}},
		{"bad name", functions.FunctionDef{Name: "a.b", Fn: strings.ToUpper}},
		{"digit first", functions.FunctionDef{Name: "1a", Fn: strings.ToUpper}},
		{"nil fn", functions.FunctionDef{Name: "f"}},
		{"not a func", functions.FunctionDef{Name: "f", Fn: 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := functions.NewRegistry(tt.def); err == nil {
				t.Errorf("expected error for %+v", tt.def)
			}
		})
	}
}

func TestNilRegistry(t *testing.T) {
	is := is.New(t)

	var r *functions.Registry
	is.Equal(r.Len(), 0)
	is.Equal(len(r.Names()), 0)
	_, ok := r.Lookup("x")
	is.True(!ok)
}
