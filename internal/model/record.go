package model

import "time"

// IDField is the implicit identifier key accepted on every entity.
const IDField = "id"

// Record is a schemaless document keyed by field name.
// Its allowed shape is declared by the target entity's schema definition.
type Record map[string]any

// ID returns the record identifier if it is set as a string.
func (r Record) ID() string {
	if r == nil {
		return ""
	}
	id, _ := r[IDField].(string)
	return id
}

// Clone returns a deep copy of nested maps and slices so callers can
// coerce values without touching the original.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

// Without returns a shallow copy of the record minus the given keys.
func (r Record) Without(keys ...string) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Record(t).Clone())
	case Record:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// StoredRecord is a record as persisted by the document store.
type StoredRecord struct {
	ID        string    `json:"id"`
	Entity    string    `json:"entity"`
	Data      Record    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// Flatten merges the identifier back into the record body.
func (s StoredRecord) Flatten() Record {
	out := s.Data.Clone()
	if out == nil {
		out = Record{}
	}
	out[IDField] = s.ID
	return out
}
