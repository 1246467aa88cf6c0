package form

import (
	"strconv"
	"strings"
)

// Values holds submitted key/value pairs regardless of the body encoding.
// A missing key and an empty value are distinct.
type Values map[string]string

func (v Values) Get(key string) string {
	return strings.TrimSpace(v[key])
}

// Raw returns the value untrimmed; passwords keep their spaces
func (v Values) Raw(key string) string {
	return v[key]
}

func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// Bool reads a checkbox. Absent keys yield nil.
func (v Values) Bool(key string) *bool {
	raw, ok := v[key]
	if !ok {
		return nil
	}
	var b bool
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		b = true
	}
	return &b
}

// FromAny converts a decoded JSON object into Values
func FromAny(m map[string]interface{}) Values {
	out := make(Values, len(m))
	for k, raw := range m {
		switch val := raw.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = val
		case bool:
			out[k] = strconv.FormatBool(val)
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		}
	}
	return out
}
