// json.go decodes a test definition file as an order-preserving JSON object.
// encoding/json's map decoding discards member order, so the top level is
// walked token by token and each member value is captured as a RawMessage
// before being unmarshalled individually.
package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

func decodeJSONDefinitions(data []byte) ([]definition, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("top-level value is not an object")
	}

	var defs []definition
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key token %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("test %q: %w", name, err)
		}
		var rt rawTest
		if err := json.Unmarshal(raw, &rt); err != nil {
			return nil, fmt.Errorf("test %q: %w", name, err)
		}
		defs = append(defs, definition{name: name, raw: rt})
	}

	// Closing brace of the top-level object.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return defs, nil
}

// literal captures a scalar that may appear as either a string or a number
// in the source document, preserving its textual form so the loader can
// interpret it per definition shape (hex for execution-trace, decimal for
// flat). An unset literal means the field was absent.
type literal struct {
	set   bool
	value string
}

func (l *literal) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		l.set, l.value = true, s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	l.set, l.value = true, n.String()
	return nil
}
