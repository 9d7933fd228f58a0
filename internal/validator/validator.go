// Package validator checks candidate records against the schema registry
// before they are handed to storage.
package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/google/uuid"

	"travelapi/internal/apperror"
	"travelapi/internal/model"
	"travelapi/internal/schema"
)

// Validated is a successful validation: the canonical entity name and the
// record with schema coercions and defaults applied.
type Validated struct {
	Entity string
	Record model.Record
}

type options struct {
	keyOrder []string
}

// Option tunes a single Validate call.
type Option func(*options)

// WithKeyOrder supplies the record's keys in input order, so offending keys
// are reported the way the caller sent them. Maps carry no order of their own.
func WithKeyOrder(keys []string) Option {
	return func(o *options) { o.keyOrder = keys }
}

// Validator validates records for registered entities. It is stateless
// beyond the injected registry and safe for concurrent use.
type Validator struct {
	registry *schema.Registry
}

// New creates a Validator backed by reg.
func New(reg *schema.Registry) *Validator {
	return &Validator{registry: reg}
}

// Registry returns the registry used for entity lookup.
func (v *Validator) Registry() *schema.Registry {
	return v.registry
}

// Validate checks record against the schema of entityName. The returned error,
// when non-nil, is always an *apperror.Error. The input record is never modified.
func (v *Validator) Validate(entityName any, record any, opts ...Option) (Validated, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	name, ok := entityName.(string)
	if !ok {
		return Validated{}, apperror.Newf(apperror.KindTypeMismatch, "entity name must be a string, got %s", describe(entityName))
	}
	rec, ok := asRecord(record)
	if !ok {
		return Validated{}, apperror.Newf(apperror.KindTypeMismatch, "record must be a non-null object, got %s", describe(record))
	}

	def, err := v.registry.Lookup(name)
	if err != nil {
		return Validated{}, apperror.Newf(apperror.KindUnknownEntity, "unknown entity %q", strings.TrimSpace(name)).WithCause(err)
	}

	if extra := unexpectedKeys(def, rec, o.keyOrder); len(extra) > 0 {
		e := apperror.Newf(apperror.KindUnexpectedFields,
			"unexpected fields for %s: %s; allowed fields: %s",
			def.Name, strings.Join(extra, ", "), strings.Join(def.AllowedKeys(), ", "))
		for _, k := range extra {
			e.WithField(k, "field is not allowed")
		}
		return Validated{}, e
	}

	out := rec.Clone()
	coerce(def.Fields, out)

	if id, present := out[model.IDField]; present {
		s, isString := id.(string)
		if _, err := uuid.Parse(s); !isString || err != nil {
			return Validated{}, apperror.New(apperror.KindFieldValidationFailed, "id must be a UUID string").
				WithField(model.IDField, "id must be a UUID string")
		}
	}

	body := map[string]any(out.Without(model.IDField))
	if err := def.Resolved().ApplyDefaults(&body); err != nil {
		return Validated{}, apperror.New(apperror.KindFieldValidationFailed, err.Error()).WithCause(err)
	}
	if err := def.Resolved().Validate(body); err != nil {
		e := apperror.New(apperror.KindFieldValidationFailed, err.Error()).WithCause(err)
		for field, msg := range fieldErrors(def, body) {
			e.WithField(field, msg)
		}
		return Validated{}, e
	}

	for _, rule := range def.Rules {
		if field, err := rule(model.Record(body)); err != nil {
			e := apperror.New(apperror.KindFieldValidationFailed, err.Error()).WithCause(err)
			if field != "" {
				e.WithField(field, err.Error())
			}
			return Validated{}, e
		}
	}

	if id, present := out[model.IDField]; present {
		body[model.IDField] = id
	}
	return Validated{Entity: def.Name, Record: model.Record(body)}, nil
}

func asRecord(v any) (model.Record, bool) {
	switch r := v.(type) {
	case model.Record:
		return r, r != nil
	case map[string]any:
		return model.Record(r), r != nil
	default:
		return nil, false
	}
}

func describe(v any) string {
	if v == nil {
		return "null"
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map:
		if reflect.ValueOf(v).IsNil() {
			return "null"
		}
		return "object"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// unexpectedKeys lists keys not allowed by def. Keys named in order come
// first, in that order; any remaining keys follow sorted.
func unexpectedKeys(def *schema.Definition, rec model.Record, order []string) []string {
	seen := make(map[string]bool, len(rec))
	keys := make([]string, 0, len(rec))
	for _, k := range order {
		if _, ok := rec[k]; ok && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	rest := make([]string, 0, len(rec)-len(keys))
	for k := range rec {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	var extra []string
	for _, k := range keys {
		if !def.Allows(k) {
			extra = append(extra, k)
		}
	}
	return extra
}

func coerce(fields []schema.Field, rec map[string]any) {
	for _, f := range fields {
		v, ok := rec[f.Name]
		if !ok {
			continue
		}
		if f.Type == schema.TypeObject {
			if nested, isMap := v.(map[string]any); isMap {
				coerce(f.Properties, nested)
			}
			continue
		}
		rec[f.Name] = f.CoerceValue(v)
	}
}

// fieldErrors attributes a failed whole-record validation to individual fields.
func fieldErrors(def *schema.Definition, body map[string]any) map[string]string {
	out := make(map[string]string)
	for _, f := range def.Fields {
		v, present := body[f.Name]
		if !present {
			if f.Required {
				out[f.Name] = f.Name + " is required"
			}
			continue
		}
		rs, ok := def.ResolvedField(f.Name)
		if !ok {
			continue
		}
		if err := rs.Validate(v); err != nil {
			out[f.Name] = err.Error()
		}
	}
	return out
}
