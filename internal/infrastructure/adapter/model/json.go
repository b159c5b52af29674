package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSON stores arbitrary key/value metadata as a jsonb column
type JSON map[string]any

// Value implements the driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value any) error {
	if value == nil {
		*j = JSON{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("unsupported jsonb source type")
	}
	return json.Unmarshal(bytes, j)
}

// GormDataType tells gorm which column type to use
func (JSON) GormDataType() string {
	return "jsonb"
}
