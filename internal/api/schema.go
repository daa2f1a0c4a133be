package api

import (
	"bytes"
	"embed"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/*.json
var schemaFS embed.FS

const schemaBase = "https://tada.makepad.fr/schema/"

// schemas holds the compiled response schemas.
type schemas struct {
	todo  *jsonschema.Schema
	todos *jsonschema.Schema
}

func compileSchemas() (*schemas, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	for _, name := range []string{"todo.json", "todos.json"} {
		b, err := schemaFS.ReadFile("schema/" + name)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		if err := compiler.AddResource(schemaBase+name, bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}

	todo, err := compiler.Compile(schemaBase + "todo.json")
	if err != nil {
		return nil, fmt.Errorf("compile todo schema: %w", err)
	}
	todos, err := compiler.Compile(schemaBase + "todos.json")
	if err != nil {
		return nil, fmt.Errorf("compile todos schema: %w", err)
	}
	return &schemas{todo: todo, todos: todos}, nil
}
