package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/goccy/go-json"
)

// StringSlice stores a set of strings as a JSON array column.
type StringSlice []string

// Value implements driver.Valuer. The array is written as text so that
// json columns accept it on every supported driver.
func (ss StringSlice) Value() (driver.Value, error) {
	if ss == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(ss))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (ss *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*ss = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, ss)
	case string:
		return json.Unmarshal([]byte(v), ss)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// GormDataType returns the data type for GORM
func (StringSlice) GormDataType() string {
	return "json"
}

func (ss StringSlice) MarshalJSON() ([]byte, error) {
	if ss == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(ss))
}

// Contains reports whether tag is present, compared exactly.
func (ss StringSlice) Contains(tag string) bool {
	for _, s := range ss {
		if s == tag {
			return true
		}
	}
	return false
}
