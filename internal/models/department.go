package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type departmentKind int

const (
	departmentNone departmentKind = iota
	departmentNamed
	departmentFull
)

// Department is the backend's polymorphic department field: a bare name in list
// responses, an {id, name} object in detail responses.
type Department struct {
	kind departmentKind
	id   string
	name string
}

// NamedDepartment is the list-view form: only the name is known.
func NamedDepartment(name string) Department {
	return Department{kind: departmentNamed, name: name}
}

// FullDepartment is the detail-view form.
func FullDepartment(id, name string) Department {
	return Department{kind: departmentFull, id: id, name: name}
}

// ID is empty unless the department arrived in its full form.
func (d Department) ID() string   { return d.id }
func (d Department) Name() string { return d.name }
func (d Department) IsFull() bool { return d.kind == departmentFull }
func (d Department) IsZero() bool { return d.kind == departmentNone }

func (d *Department) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*d = Department{}
		return nil
	}

	if trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return fmt.Errorf("department name: %w", err)
		}
		*d = NamedDepartment(name)
		return nil
	}

	var obj struct {
		ID   FlexString `json:"id"`
		Name string     `json:"name"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return fmt.Errorf("department object: %w", err)
	}
	*d = FullDepartment(string(obj.ID), obj.Name)
	return nil
}

func (d Department) MarshalJSON() ([]byte, error) {
	switch d.kind {
	case departmentNamed:
		return json.Marshal(d.name)
	case departmentFull:
		return json.Marshal(map[string]string{"id": d.id, "name": d.name})
	default:
		return []byte("null"), nil
	}
}

// FlexString accepts a JSON string, number or null. Backend ids arrive as either.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(trimmed))
	}
	*f = FlexString(n.String())
	return nil
}
