package graphql

import (
	_ "embed"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/vektah/gqlparser/v2"
	gqlast "github.com/vektah/gqlparser/v2/ast"

	"github.com/ayush9goyal/graphql-k8s-demo/errors"
)

// SDL is the schema in GraphQL schema definition language
//
//go:embed schema.graphql
var SDL string

// ErrSchemaDrift reports that SDL and the built schema disagree
var ErrSchemaDrift = stderrors.New("schema.graphql does not match the executable schema")

var builtinScalars = map[string]bool{
	"String":  true,
	"Int":     true,
	"Float":   true,
	"Boolean": true,
	"ID":      true,
}

// VerifySDL checks that SDL and schema declare the same types, fields, field
// types and arguments
func VerifySDL(schema graphql.Schema) error {
	doc, err := gqlparser.LoadSchema(&gqlast.Source{Name: "schema.graphql", Input: SDL})
	if err != nil {
		return errors.WrapFatal(err, "graphql", "VerifySDL", "parse schema.graphql")
	}

	var problems []string
	for name, def := range doc.Types {
		if def.BuiltIn || strings.HasPrefix(name, "__") {
			continue
		}

		typed := schema.Type(name)
		if typed == nil {
			problems = append(problems, fmt.Sprintf("type %s missing from executable schema", name))
			continue
		}

		switch def.Kind {
		case gqlast.Object:
			obj, ok := typed.(*graphql.Object)
			if !ok {
				problems = append(problems, fmt.Sprintf("type %s is not an object", name))
				continue
			}
			problems = append(problems, compareObject(def, obj)...)
		case gqlast.InputObject:
			input, ok := typed.(*graphql.InputObject)
			if !ok {
				problems = append(problems, fmt.Sprintf("type %s is not an input object", name))
				continue
			}
			problems = append(problems, compareInput(def, input)...)
		case gqlast.Scalar:
			if _, ok := typed.(*graphql.Scalar); !ok {
				problems = append(problems, fmt.Sprintf("type %s is not a scalar", name))
			}
		default:
			problems = append(problems, fmt.Sprintf("type %s has unsupported kind %s", name, def.Kind))
		}
	}

	for name := range schema.TypeMap() {
		if strings.HasPrefix(name, "__") || builtinScalars[name] {
			continue
		}
		if doc.Types[name] == nil {
			problems = append(problems, fmt.Sprintf("type %s missing from schema.graphql", name))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return errors.WrapFatal(fmt.Errorf("%w: %s", ErrSchemaDrift, strings.Join(problems, "; ")),
			"graphql", "VerifySDL", "compare schemas")
	}
	return nil
}

func compareObject(def *gqlast.Definition, obj *graphql.Object) []string {
	var problems []string
	fields := obj.Fields()

	for _, f := range def.Fields {
		if strings.HasPrefix(f.Name, "__") {
			continue
		}
		typed, ok := fields[f.Name]
		if !ok {
			problems = append(problems, fmt.Sprintf("field %s.%s missing from executable schema", def.Name, f.Name))
			continue
		}
		if got, want := typed.Type.String(), f.Type.String(); got != want {
			problems = append(problems, fmt.Sprintf("field %s.%s has type %s, schema.graphql says %s", def.Name, f.Name, got, want))
		}
		problems = append(problems, compareArgs(def.Name+"."+f.Name, f.Arguments, typed.Args)...)
	}

	for name := range fields {
		if def.Fields.ForName(name) == nil {
			problems = append(problems, fmt.Sprintf("field %s.%s missing from schema.graphql", def.Name, name))
		}
	}
	return problems
}

func compareArgs(field string, sdlArgs gqlast.ArgumentDefinitionList, typed []*graphql.Argument) []string {
	var problems []string

	byName := make(map[string]*graphql.Argument, len(typed))
	for _, arg := range typed {
		byName[arg.Name()] = arg
	}

	for _, arg := range sdlArgs {
		t, ok := byName[arg.Name]
		if !ok {
			problems = append(problems, fmt.Sprintf("argument %s(%s) missing from executable schema", field, arg.Name))
			continue
		}
		if got, want := t.Type.String(), arg.Type.String(); got != want {
			problems = append(problems, fmt.Sprintf("argument %s(%s) has type %s, schema.graphql says %s", field, arg.Name, got, want))
		}
	}

	for name := range byName {
		if sdlArgs.ForName(name) == nil {
			problems = append(problems, fmt.Sprintf("argument %s(%s) missing from schema.graphql", field, name))
		}
	}
	return problems
}

func compareInput(def *gqlast.Definition, input *graphql.InputObject) []string {
	var problems []string
	fields := input.Fields()

	for _, f := range def.Fields {
		typed, ok := fields[f.Name]
		if !ok {
			problems = append(problems, fmt.Sprintf("input field %s.%s missing from executable schema", def.Name, f.Name))
			continue
		}
		if got, want := typed.Type.String(), f.Type.String(); got != want {
			problems = append(problems, fmt.Sprintf("input field %s.%s has type %s, schema.graphql says %s", def.Name, f.Name, got, want))
		}
	}

	for name := range fields {
		if def.Fields.ForName(name) == nil {
			problems = append(problems, fmt.Sprintf("input field %s.%s missing from schema.graphql", def.Name, name))
		}
	}
	return problems
}
