package grammar

import (
	"fmt"
	"sort"
)

// Grammar is a named top-level production a worker can run.
type Grammar interface {
	// Name is the key the grammar is registered under.
	Name() string

	// Generate resets g's depth counter and appends one test case to buf.
	Generate(g *Generator, buf []byte) []byte

	// Description returns a human-readable summary of the output.
	Description() string
}

// Registry maps grammar names to implementations.
var Registry = map[string]Grammar{
	"json":        valueGrammar{},
	"json-object": objectGrammar{},
}

// DefaultGrammar is used when no name is configured.
const DefaultGrammar = "json"

// Get returns a grammar by name.
func Get(name string) (Grammar, error) {
	gr, exists := Registry[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGrammar, name)
	}
	return gr, nil
}

// List returns all registered grammar names, sorted.
func List() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type valueGrammar struct{}

func (valueGrammar) Name() string { return "json" }

func (valueGrammar) Generate(g *Generator, buf []byte) []byte {
	return g.Generate(buf)
}

func (valueGrammar) Description() string {
	return "Any JSON value: objects, arrays, strings, numbers and literals"
}

// objectGrammar always roots the case in an object, which is what most
// document-oriented consumers accept at the top level.
type objectGrammar struct{}

func (objectGrammar) Name() string { return "json-object" }

func (objectGrammar) Generate(g *Generator, buf []byte) []byte {
	g.depth = 1
	return g.object(buf)
}

func (objectGrammar) Description() string {
	return "A JSON object at the top level, any values below it"
}
