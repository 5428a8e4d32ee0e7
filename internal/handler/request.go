package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt accepts a JSON number or a numeric string, as HTML forms often send them.
// Set reports whether the field was present and not null.
type FlexInt struct {
	Value int
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexInt{}
		return nil
	}

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*f = FlexInt{}
			return nil
		}
	} else {
		raw = string(data)
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%q is not an integer", raw)
	}
	*f = FlexInt{Value: n, Set: true}
	return nil
}

// LoginRequest represents a login form submission.
type LoginRequest struct {
	Name      string  `json:"name" validate:"required"`
	StudentID string  `json:"studentId" validate:"required"`
	Year      FlexInt `json:"year" swaggertype:"integer"`
	Password  string  `json:"password,omitempty"`
}

// CreateProjectRequest represents a new catalog project.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// EvaluateRequest represents an evaluation submission.
type EvaluateRequest struct {
	ProjectID string  `json:"projectId" validate:"required"`
	Score     FlexInt `json:"score" swaggertype:"integer"`
	Comment   string  `json:"comment"`
}
