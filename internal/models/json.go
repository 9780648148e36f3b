package models

import (
	"bytes"
	"encoding/json"
)

// decodeMaybeWrapped decodes data into v. When data is a JSON string whose
// content is itself JSON, the string is unwrapped once and decoded instead.
func decodeMaybeWrapped(data []byte, v any) error {
	payload, err := unwrapOnce(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, v)
}

// unwrapOnce returns the content of a JSON string, or data itself when it is
// not a string.
func unwrapOnce(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, err
		}
		return []byte(inner), nil
	}
	return trimmed, nil
}

// CodeRef is a raw category reference as it appears in stored weight tables
// and answer payloads. It accepts both JSON strings and JSON numbers.
type CodeRef string

func (r *CodeRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*r = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*r = CodeRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		// unsupported shapes degrade to an empty reference
		*r = ""
		return nil
	}
	*r = CodeRef(n.String())
	return nil
}

func (r CodeRef) String() string {
	return string(r)
}

func (r CodeRef) IsEmpty() bool {
	return len(bytes.TrimSpace([]byte(r))) == 0
}
