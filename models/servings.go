package models

import (
	"bytes"
	"encoding/json"
)

// Servings is either an explicit remaining count or a marker meaning
// "use the item's total capacity". The zero value is the capacity default.
type Servings struct {
	explicit bool
	count    int
}

func ExplicitServings(n int) Servings {
	return Servings{explicit: true, count: n}
}

func CapacityDefault() Servings {
	return Servings{}
}

// ServingsFromPtr maps a nullable stored field: nil means the field is absent.
func ServingsFromPtr(n *int) Servings {
	if n == nil {
		return CapacityDefault()
	}
	return ExplicitServings(*n)
}

func (s Servings) IsExplicit() bool {
	return s.explicit
}

// Ptr is the inverse of ServingsFromPtr.
func (s Servings) Ptr() *int {
	if !s.explicit {
		return nil
	}
	n := s.count
	return &n
}

// Resolve returns the explicit count, or capacity when none was set.
func (s Servings) Resolve(capacity int) int {
	if s.explicit {
		return s.count
	}
	return capacity
}

func (s Servings) MarshalJSON() ([]byte, error) {
	if !s.explicit {
		return []byte("null"), nil
	}
	return json.Marshal(s.count)
}

func (s *Servings) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = CapacityDefault()
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = ExplicitServings(n)
	return nil
}
