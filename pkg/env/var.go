// Package env declares the SIGNUP_* environment variables. Each variable is
// declared once with its default and description; the declaration both reads
// the value and documents it for `signup env`.
package env

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Component names the part of the client that reads a variable.
type Component string

const (
	ComponentCLI     Component = "cli"
	ComponentUI      Component = "ui"
	ComponentLogging Component = "logging"
)

// Components lists the components variables are declared under, in
// documentation order.
func Components() []Component {
	return []Component{ComponentCLI, ComponentLogging, ComponentUI}
}

// Doc describes a declared variable.
type Doc struct {
	Name        string    `json:"name"`
	Default     string    `json:"default"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Component   Component `json:"component"`
}

var registry = struct {
	sync.Mutex
	docs map[string]Doc
}{docs: map[string]Doc{}}

// Variable reads one environment variable as T. Values that fail to parse
// fall back to the default.
type Variable[T any] struct {
	name  string
	def   T
	parse func(string) (T, error)
}

func declare[T any](name string, def T, typ, description string, c Component, parse func(string) (T, error)) Variable[T] {
	registry.Lock()
	registry.docs[name] = Doc{
		Name:        name,
		Default:     fmt.Sprint(def),
		Description: description,
		Type:        typ,
		Component:   c,
	}
	registry.Unlock()
	return Variable[T]{name: name, def: def, parse: parse}
}

// NewString declares a string variable.
func NewString(name, def, description string, c Component) Variable[string] {
	return declare(name, def, "String", description, c, func(s string) (string, error) { return s, nil })
}

// NewBool declares a boolean variable.
func NewBool(name string, def bool, description string, c Component) Variable[bool] {
	return declare(name, def, "Boolean", description, c, strconv.ParseBool)
}

// NewDuration declares a duration variable.
func NewDuration(name string, def time.Duration, description string, c Component) Variable[time.Duration] {
	return declare(name, def, "Duration", description, c, time.ParseDuration)
}

func (v Variable[T]) Name() string { return v.name }

func (v Variable[T]) DefaultValue() T { return v.def }

// Lookup returns the parsed value and true when the variable is set to
// something parseable, or the default and false.
func (v Variable[T]) Lookup() (T, bool) {
	raw, ok := os.LookupEnv(v.name)
	if !ok {
		return v.def, false
	}
	val, err := v.parse(raw)
	if err != nil {
		return v.def, false
	}
	return val, true
}

func (v Variable[T]) Get() T {
	val, _ := v.Lookup()
	return val
}

// Find returns the documentation of a declared variable.
func Find(name string) (Doc, bool) {
	registry.Lock()
	defer registry.Unlock()
	d, ok := registry.docs[name]
	return d, ok
}

// Docs returns the declared variables of component ("" or "all" for every
// component), ordered by component and then name.
func Docs(component string) []Doc {
	registry.Lock()
	out := make([]Doc, 0, len(registry.docs))
	for _, d := range registry.docs {
		if component == "" || component == "all" || string(d.Component) == component {
			out = append(out, d)
		}
	}
	registry.Unlock()

	slices.SortFunc(out, func(a, b Doc) int {
		return cmp.Or(cmp.Compare(a.Component, b.Component), cmp.Compare(a.Name, b.Name))
	})
	return out
}

// ExportMarkdown renders one markdown table per component.
func ExportMarkdown(component string) string {
	var sb strings.Builder
	sb.WriteString("# Signup Client Environment Variables\n")

	docs := Docs(component)
	for start := 0; start < len(docs); {
		comp := docs[start].Component
		end := start
		tw := table.NewWriter()
		tw.AppendHeader(table.Row{"Variable", "Type", "Default", "Description"})
		for ; end < len(docs) && docs[end].Component == comp; end++ {
			d := docs[end]
			def := d.Default
			if def == "" {
				def = "(none)"
			}
			tw.AppendRow(table.Row{"`" + d.Name + "`", d.Type, "`" + def + "`", d.Description})
		}
		fmt.Fprintf(&sb, "\n## %s\n\n%s\n", comp, tw.RenderMarkdown())
		start = end
	}
	return sb.String()
}

// ExportJSON renders the variables as a JSON array.
func ExportJSON(component string) string {
	b, err := json.MarshalIndent(Docs(component), "", "  ")
	if err != nil {
		return "[]\n"
	}
	return string(b) + "\n"
}
