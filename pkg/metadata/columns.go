package metadata

import (
	"errors"
	"fmt"
	"iter"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Columns is an insertion-ordered mapping of column name to [ColumnProfile].
//
// Names are unique and case is preserved. Decoding from JSON or YAML keeps
// the document order; a repeated name keeps its first position and its last
// profile.
type Columns struct {
	om *orderedmap.OrderedMap[string, *ColumnProfile]
}

// Column is a single named entry of [Columns].
type Column struct {
	Profile *ColumnProfile
	Name    string
}

// NewColumns creates [Columns] holding the given entries in order.
func NewColumns(cols ...Column) *Columns {
	c := &Columns{om: orderedmap.New[string, *ColumnProfile](len(cols))}
	for _, col := range cols {
		c.om.Set(col.Name, col.Profile)
	}

	return c
}

// Set adds or replaces the profile for name. A new name is appended.
func (c *Columns) Set(name string, p *ColumnProfile) {
	if c.om == nil {
		c.om = orderedmap.New[string, *ColumnProfile]()
	}

	c.om.Set(name, p)
}

// Get returns the profile for name.
func (c *Columns) Get(name string) (*ColumnProfile, bool) {
	if c == nil || c.om == nil {
		return nil, false
	}

	return c.om.Get(name)
}

// Len returns the number of columns.
func (c *Columns) Len() int {
	if c == nil || c.om == nil {
		return 0
	}

	return c.om.Len()
}

// Names returns the column names in order.
func (c *Columns) Names() []string {
	names := make([]string, 0, c.Len())
	for name := range c.All() {
		names = append(names, name)
	}

	return names
}

// All iterates over the columns in order.
func (c *Columns) All() iter.Seq2[string, *ColumnProfile] {
	return func(yield func(string, *ColumnProfile) bool) {
		if c == nil || c.om == nil {
			return
		}

		for pair := c.om.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

func (c *Columns) MarshalJSON() ([]byte, error) {
	if c.om == nil {
		return []byte("{}"), nil
	}

	return c.om.MarshalJSON() //nolint:wrapcheck // Return the original error.
}

func (c *Columns) UnmarshalJSON(data []byte) error {
	om := orderedmap.New[string, *ColumnProfile]()

	err := om.UnmarshalJSON(data)
	if err != nil {
		return fmt.Errorf("columns: %w", err)
	}

	c.om = om

	return nil
}

// MarshalYAML encodes the columns as an ordered YAML mapping.
func (c *Columns) MarshalYAML() (any, error) {
	ms := make(yaml.MapSlice, 0, c.Len())
	for name, p := range c.All() {
		ms = append(ms, yaml.MapItem{Key: name, Value: p})
	}

	return ms, nil
}

// UnmarshalYAML decodes an ordered YAML mapping. Each value is decoded from
// its own node so errors keep their source position.
func (c *Columns) UnmarshalYAML(node ast.Node) error {
	mapping, ok := node.(ast.MapNode)
	if !ok {
		return errors.New("columns: expected a mapping")
	}

	om := orderedmap.New[string, *ColumnProfile]()

	it := mapping.MapRange()
	for it.Next() {
		var name string

		err := yaml.NodeToValue(it.Key(), &name)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}

		value := it.Value()
		if value == nil || value.Type() == ast.NullType {
			om.Set(name, nil)

			continue
		}

		p := &ColumnProfile{}

		err = yaml.NodeToValue(value, p)
		if err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}

		om.Set(name, p)
	}

	c.om = om

	return nil
}

// JSONSchema describes [Columns] as an object whose values are
// [ColumnProfile]s.
func (Columns) JSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}

	profile := r.Reflect(&ColumnProfile{})
	profile.Version = ""
	profile.ID = ""

	return &jsonschema.Schema{
		Type:                 "object",
		Title:                "Columns",
		Description:          "Column profiles keyed by column name, in document order.",
		AdditionalProperties: profile,
	}
}
