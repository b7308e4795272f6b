// Package config holds the static configuration-option tables of the RDS provider
// and the helpers that read and validate configuration values against them.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Configured is a set of configuration values keyed by configuration key.
type Configured map[string]string

// PropertyType is the value type of a configuration property.
type PropertyType string

const (
	TypeString PropertyType = "string"
	TypeBool   PropertyType = "boolean"
	TypeInt    PropertyType = "integer"
	TypeList   PropertyType = "list"
)

// Property describes one configuration option.
type Property struct {
	Key          string       `json:"configKey" yaml:"configKey"`
	Name         string       `json:"name" yaml:"name"`
	Description  string       `json:"description,omitempty" yaml:"description,omitempty"`
	Type         PropertyType `json:"type" yaml:"type"`
	Required     bool         `json:"required" yaml:"required"`
	Sensitive    bool         `json:"sensitive,omitempty" yaml:"sensitive,omitempty"`
	DefaultValue string       `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	ValidValues  []string     `json:"validValues,omitempty" yaml:"validValues,omitempty"`
	// OpenList properties suggest ValidValues but accept anything.
	OpenList bool `json:"openList,omitempty" yaml:"openList,omitempty"`
}

// Lookup returns the configured value for p, or its default when unset.
func (p Property) Lookup(c Configured) (string, bool) {
	if v, ok := c[p.Key]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), true
	}
	if p.DefaultValue != "" {
		return p.DefaultValue, true
	}
	return "", false
}

// Validate checks c against props and reports every problem found.
func Validate(props []Property, c Configured, root *field.Path) field.ErrorList {
	var errs field.ErrorList

	for _, p := range props {
		path := root.Child(p.Key)
		value, ok := p.Lookup(c)
		if !ok {
			if p.Required {
				errs = append(errs, field.Required(path, fmt.Sprintf("%s is required", p.Name)))
			}
			continue
		}

		shown := value
		if p.Sensitive {
			shown = "<redacted>"
		}

		switch p.Type {
		case TypeBool:
			if _, err := strconv.ParseBool(value); err != nil {
				errs = append(errs, field.Invalid(path, shown, "must be true or false"))
				continue
			}
		case TypeInt:
			if _, err := strconv.ParseInt(value, 10, 32); err != nil {
				errs = append(errs, field.Invalid(path, shown, "must be an integer"))
				continue
			}
		case TypeList:
			if len(SplitList(value)) == 0 {
				errs = append(errs, field.Invalid(path, shown, "must contain at least one value"))
				continue
			}
		}

		if len(p.ValidValues) > 0 && !p.OpenList && !contains(p.ValidValues, value) {
			errs = append(errs, field.NotSupported(path, shown, p.ValidValues))
		}
	}

	return errs
}

// SplitList splits a comma-separated value, dropping empty items.
func SplitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Reader reads typed values from a Configured already checked by Validate.
type Reader struct {
	props map[string]Property
	c     Configured
}

// NewReader returns a Reader over c for the given property table.
func NewReader(props []Property, c Configured) *Reader {
	byKey := make(map[string]Property, len(props))
	for _, p := range props {
		byKey[p.Key] = p
	}
	return &Reader{props: byKey, c: c}
}

func (r *Reader) lookup(key string) (string, bool) {
	p, ok := r.props[key]
	if !ok {
		p = Property{Key: key}
	}
	return p.Lookup(r.c)
}

// String returns the value of key, or "" when unset.
func (r *Reader) String(key string) string {
	v, _ := r.lookup(key)
	return v
}

// OptionalString returns nil when key is unset.
func (r *Reader) OptionalString(key string) *string {
	v, ok := r.lookup(key)
	if !ok {
		return nil
	}
	return &v
}

// OptionalBool returns nil when key is unset or not a boolean.
func (r *Reader) OptionalBool(key string) *bool {
	v, ok := r.lookup(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// Bool returns false when key is unset or not a boolean.
func (r *Reader) Bool(key string) bool {
	b := r.OptionalBool(key)
	return b != nil && *b
}

// OptionalInt32 returns nil when key is unset or not an integer.
func (r *Reader) OptionalInt32(key string) *int32 {
	v, ok := r.lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return nil
	}
	i := int32(n)
	return &i
}

// List returns the comma-separated items of key.
func (r *Reader) List(key string) []string {
	v, ok := r.lookup(key)
	if !ok {
		return nil
	}
	return SplitList(v)
}
