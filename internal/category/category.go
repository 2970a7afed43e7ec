package category

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrNotFound = errors.New("category not found")

// Type represents the direction of money a category tracks.
type Type string

const (
	TypeExpense Type = "expense"
	TypeIncome  Type = "income"
)

func (t Type) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

// Category groups transactions and budgets. Name is unique within a Type.
type Category struct {
	ID        int64
	Name      string
	Type      Type
	Color     string
	Custom    bool
	CreatedAt time.Time
}

// Ref is the canonical form of a reference to a category. Records coming from
// the store or from clients may carry only an id, only a name, or both.
type Ref struct {
	ID   int64
	Name string
}

// RefOf returns a reference carrying both the id and the name of c.
func RefOf(c *Category) Ref {
	if c == nil {
		return Ref{}
	}

	return Ref{ID: c.ID, Name: c.Name}
}

func (r Ref) IsZero() bool { return r.ID == 0 && r.Name == "" }

// Label is the comparable display name of the reference, falling back to the
// textual id when no name was resolved.
func (r Ref) Label() string {
	if r.Name != "" {
		return r.Name
	}

	if r.ID != 0 {
		return strconv.FormatInt(r.ID, 10)
	}

	return ""
}

// Matches reports whether r points at c, by id when r has one, by name otherwise.
func (r Ref) Matches(c *Category) bool {
	if c == nil {
		return false
	}

	if r.ID != 0 {
		return r.ID == c.ID
	}

	return r.Name != "" && r.Name == c.Name
}

type refObject struct {
	ID    *int64  `json:"id"`
	IDAlt *int64  `json:"Id"`
	Name  *string `json:"name"`
	Alt   *string `json:"Name"`
}

// UnmarshalJSON accepts a number, a string holding a name or an id, or an
// object with id/name keys in either casing.
func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*r = Ref{}
		return nil

	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("category ref: %w", err)
		}

		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			*r = Ref{ID: id}
			return nil
		}

		*r = Ref{Name: s}

		return nil

	case b[0] == '{':
		var obj refObject
		if err := json.Unmarshal(b, &obj); err != nil {
			return fmt.Errorf("category ref: %w", err)
		}

		*r = Ref{}

		switch {
		case obj.ID != nil:
			r.ID = *obj.ID
		case obj.IDAlt != nil:
			r.ID = *obj.IDAlt
		}

		switch {
		case obj.Name != nil:
			r.Name = *obj.Name
		case obj.Alt != nil:
			r.Name = *obj.Alt
		}

		return nil

	default:
		var id int64
		if err := json.Unmarshal(b, &id); err != nil {
			return fmt.Errorf("category ref: %w", err)
		}

		*r = Ref{ID: id}

		return nil
	}
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(struct {
		ID   int64  `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	}{r.ID, r.Name})
}
