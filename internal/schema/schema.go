// Package schema holds the entity schema registry: a declarative table of
// field definitions per entity, compiled once at startup into JSON schemas.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"travelapi/internal/model"
)

// FieldType is the JSON type of a field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeObject  FieldType = "object"
	TypeArray   FieldType = "array"
)

// Coercion is a normalization applied to string values before validation.
type Coercion int

const (
	CoerceTrim Coercion = iota + 1
	CoerceLower
	CoerceUpper
)

// Field declares one entity field and its constraints.
type Field struct {
	Name      string
	Type      FieldType
	Required  bool
	Pattern   string
	Enum      []any
	MinLength *int
	MaxLength *int
	Minimum   *float64
	// Default is applied when the field is absent. Ignored on required fields.
	Default any
	Coerce  []Coercion
	// Properties declares nested fields when Type is TypeObject.
	Properties []Field
}

// Rule is a record-level check spanning several fields. It returns the
// offending field name with the error, or "" when the record passes.
type Rule func(rec model.Record) (field string, err error)

// Definition is the schema of one entity.
type Definition struct {
	Name   string
	Fields []Field
	Rules  []Rule

	schema *jsonschema.Schema
	root   *jsonschema.Resolved
	fields map[string]*jsonschema.Resolved
	index  map[string]int
}

// FieldNames returns the declared field names in declaration order.
func (d *Definition) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// AllowedKeys returns the declared fields followed by the identifier field.
func (d *Definition) AllowedKeys() []string {
	return append(d.FieldNames(), model.IDField)
}

// Allows reports whether key is a declared field or the identifier.
func (d *Definition) Allows(key string) bool {
	if key == model.IDField {
		return true
	}
	_, ok := d.index[key]
	return ok
}

// Field returns the declaration for name.
func (d *Definition) Field(name string) (Field, bool) {
	i, ok := d.index[name]
	if !ok {
		return Field{}, false
	}
	return d.Fields[i], true
}

// Resolved returns the compiled JSON schema for the whole entity.
func (d *Definition) Resolved() *jsonschema.Resolved {
	return d.root
}

// JSONSchema returns the entity schema as declared, before resolution.
func (d *Definition) JSONSchema() *jsonschema.Schema {
	return d.schema
}

// ResolvedField returns the compiled JSON schema for a single field.
func (d *Definition) ResolvedField(name string) (*jsonschema.Resolved, bool) {
	rs, ok := d.fields[name]
	return rs, ok
}

func (d *Definition) compile() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("schema: entity name is required")
	}
	if d.Name != NormalizeEntityName(d.Name) {
		return fmt.Errorf("schema: entity name %q is not canonical, want %q", d.Name, NormalizeEntityName(d.Name))
	}

	d.index = make(map[string]int, len(d.Fields))
	d.fields = make(map[string]*jsonschema.Resolved, len(d.Fields))
	for i, f := range d.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema %s: field %d has no name", d.Name, i)
		}
		if f.Name == model.IDField {
			return fmt.Errorf("schema %s: field %q is reserved", d.Name, model.IDField)
		}
		if _, dup := d.index[f.Name]; dup {
			return fmt.Errorf("schema %s: duplicate field %q", d.Name, f.Name)
		}
		d.index[f.Name] = i
	}

	root, err := objectSchema(d.Fields)
	if err != nil {
		return fmt.Errorf("schema %s: %w", d.Name, err)
	}
	root.Title = d.Name
	d.schema = root
	if d.root, err = root.Resolve(&jsonschema.ResolveOptions{ValidateDefaults: true}); err != nil {
		return fmt.Errorf("schema %s: resolve: %w", d.Name, err)
	}

	for _, f := range d.Fields {
		fs, err := fieldSchema(f)
		if err != nil {
			return fmt.Errorf("schema %s: field %s: %w", d.Name, f.Name, err)
		}
		rs, err := fs.Resolve(nil)
		if err != nil {
			return fmt.Errorf("schema %s: field %s: resolve: %w", d.Name, f.Name, err)
		}
		d.fields[f.Name] = rs
	}
	return nil
}

func objectSchema(fields []Field) (*jsonschema.Schema, error) {
	s := &jsonschema.Schema{
		Type:          string(TypeObject),
		Properties:    make(map[string]*jsonschema.Schema, len(fields)),
		PropertyOrder: make([]string, 0, len(fields)),
	}
	for _, f := range fields {
		fs, err := fieldSchema(f)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		s.Properties[f.Name] = fs
		s.PropertyOrder = append(s.PropertyOrder, f.Name)
		if f.Required {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s, nil
}

func fieldSchema(f Field) (*jsonschema.Schema, error) {
	if f.Type == TypeObject {
		s, err := objectSchema(f.Properties)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s := &jsonschema.Schema{
		Type:      string(f.Type),
		Pattern:   f.Pattern,
		Enum:      f.Enum,
		MinLength: f.MinLength,
		MaxLength: f.MaxLength,
		Minimum:   f.Minimum,
	}
	if f.Default != nil && !f.Required {
		raw, err := json.Marshal(f.Default)
		if err != nil {
			return nil, fmt.Errorf("marshal default: %w", err)
		}
		s.Default = raw
	}
	return s, nil
}

// CoerceValue applies the field's declared coercions to a string value.
// Non-string values are returned unchanged.
func (f Field) CoerceValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	for _, c := range f.Coerce {
		switch c {
		case CoerceTrim:
			s = strings.TrimSpace(s)
		case CoerceLower:
			s = strings.ToLower(s)
		case CoerceUpper:
			s = strings.ToUpper(s)
		}
	}
	return s
}
