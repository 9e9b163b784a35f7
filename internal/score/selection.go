package score

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cast"
)

// Choice is the class selected for one scorecard variable.
type Choice struct {
	Variable string
	Response string
}

// Selection is the ordered list of choices submitted for scoring.
// Order matters: hard-rejection rules stop the evaluation at the first match.
type Selection []Choice

// UnmarshalJSON decodes a JSON object while keeping its key order.
//
// String values are used as-is, numbers and booleans are converted to their text form and
// null becomes an empty (unselected) response. A key that appears twice keeps the position
// of its first occurrence and the value of its last one.
func (s *Selection) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("selection: expected a JSON object")
	}

	out := Selection{}
	positions := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		variable := tok.(string)

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		response, err := responseText(raw)
		if err != nil {
			return fmt.Errorf("selection %q: %w", variable, err)
		}

		if pos, found := positions[variable]; found {
			out[pos].Response = response
			continue
		}
		positions[variable] = len(out)
		out = append(out, Choice{Variable: variable, Response: response})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

// MarshalJSON encodes the selection as a JSON object in selection order.
func (s Selection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, choice := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(choice.Variable)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(choice.Response)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func responseText(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case json.Number:
		return v.String(), nil
	case map[string]any, []any:
		return "", errors.New("response must be a scalar value")
	default:
		return cast.ToStringE(v)
	}
}
