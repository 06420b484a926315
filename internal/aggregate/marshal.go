package aggregate

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// MarshalJSON renders the stat as an object with an avg key and, when a
// range exists, min and max keys. Unsuffixed values are emitted as JSON
// numbers, suffixed ones as strings.
func (s Stat) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`{"avg":`)
	buf.Write(s.jsonValue(s.Avg))
	if s.HasRange {
		buf.WriteString(`,"min":`)
		buf.Write(s.jsonValue(s.Min))
		buf.WriteString(`,"max":`)
		buf.Write(s.jsonValue(s.Max))
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (s Stat) jsonValue(v float64) []byte {
	rendered := s.render(v)
	if s.Unit == UnitNone {
		return []byte(rendered)
	}

	quoted, err := json.Marshal(rendered)
	if err != nil {
		// Marshaling a plain string cannot fail.
		panic(err)
	}

	return quoted
}

// MarshalJSON emits the report as a JSON object whose keys follow the
// first sample's label order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')
	for i, label := range r.Labels {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(r.Stats[label])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML emits the report as a mapping that preserves label order,
// which a plain map would lose.
func (r *Report) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	for _, label := range r.Labels {
		stat := r.Stats[label]

		entry := &yaml.Node{Kind: yaml.MappingNode}
		entry.Content = append(entry.Content, scalar("avg"), scalar(stat.AvgString()))
		if stat.HasRange {
			entry.Content = append(entry.Content, scalar("min"), scalar(stat.MinString()))
			entry.Content = append(entry.Content, scalar("max"), scalar(stat.MaxString()))
		}

		root.Content = append(root.Content, scalar(label), entry)
	}

	return root, nil
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
}
