package snapshot

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"battery-budget/internal/model"
)

// Number is a lenient numeric field. It accepts numbers and numeric strings;
// anything else decodes as 0 instead of failing the whole document. A null
// leaves the current (default) value in place.
type Number float64

func (n Number) Float() float64 { return float64(n) }

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = 0
			return nil
		}
		*n = Number(model.ParseNumberOrDefault(s, 0))
		return nil
	}
	*n = Number(model.ParseNumberOrDefault(string(b), 0))
	return nil
}

func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		*n = 0
		return nil
	}
	if node.Tag == "!!null" {
		return nil
	}
	*n = Number(model.ParseNumberOrDefault(node.Value, 0))
	return nil
}

func num(v float64) *Number {
	n := Number(v)
	return &n
}

func deref(n *Number, def float64) float64 {
	if n == nil {
		return def
	}
	return n.Float()
}
