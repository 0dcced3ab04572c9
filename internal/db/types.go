package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Custom types for PostgreSQL JSONB and array columns. Scan accepts both
// []byte and string so the same models work against the sqlite test driver.

type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return json.Marshal(JSONB{})
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = make(map[string]interface{})
		return nil
	}
	b, err := asBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, j)
}

// JSONList maps to a JSONB column holding an array.
type JSONList []interface{}

func (l JSONList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(JSONList{})
	}
	return json.Marshal(l)
}

func (l *JSONList) Scan(value interface{}) error {
	if value == nil {
		*l = JSONList{}
		return nil
	}
	b, err := asBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, l)
}

type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}
	b, err := asBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, s)
}

func asBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", value)
	}
}
