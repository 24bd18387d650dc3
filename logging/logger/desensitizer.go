package logger

import (
	"encoding/json"
	"strings"

	"github.com/ncobase/composite/config"
	"github.com/sirupsen/logrus"
)

// maxDepth bounds recursion into nested values.
const maxDepth = 10

// Desensitizer masks values of sensitive fields in log output.
type Desensitizer struct {
	enabled bool
	fields  []string
	mask    string
}

// NewDesensitizer creates a desensitizer from cfg. A nil cfg disables it.
func NewDesensitizer(cfg *config.Desensitization) *Desensitizer {
	if cfg == nil || !cfg.Enabled {
		return &Desensitizer{}
	}

	maskChar, length := cfg.MaskChar, cfg.MaskLength
	if maskChar == "" {
		maskChar = "*"
	}
	if length <= 0 {
		length = 8
	}

	fields := make([]string, 0, len(cfg.SensitiveFields))
	for _, f := range cfg.SensitiveFields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			fields = append(fields, f)
		}
	}

	return &Desensitizer{
		enabled: true,
		fields:  fields,
		mask:    strings.Repeat(maskChar, length),
	}
}

// DesensitizeFields returns a copy of fields with sensitive values masked.
func (d *Desensitizer) DesensitizeFields(fields logrus.Fields) logrus.Fields {
	if d == nil || !d.enabled {
		return fields
	}

	result := make(logrus.Fields, len(fields))
	for key, value := range fields {
		result[key] = d.desensitizeValue(key, value, 0)
	}
	return result
}

// DeepDesensitize masks sensitive keys anywhere inside data.
func (d *Desensitizer) DeepDesensitize(data any) any {
	if d == nil || !d.enabled {
		return data
	}
	return d.desensitizeValue("", data, 0)
}

func (d *Desensitizer) desensitizeValue(key string, value any, depth int) any {
	if value == nil || depth > maxDepth {
		return value
	}
	if d.isSensitiveField(key) {
		return d.mask
	}

	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = d.desensitizeValue(k, item, depth+1)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = d.desensitizeValue("", item, depth+1)
		}
		return out
	case string, bool, int, int64, float64, json.Number, error:
		return v
	}

	// Structs and typed containers go through their JSON form.
	b, err := json.Marshal(value)
	if err != nil {
		return value
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return value
	}
	switch generic.(type) {
	case map[string]any, []any:
		return d.desensitizeValue(key, generic, depth+1)
	}
	return value
}

// isSensitiveField checks if field name contains a sensitive keyword
func (d *Desensitizer) isSensitiveField(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, f := range d.fields {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}
