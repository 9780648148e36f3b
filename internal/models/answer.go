package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// AnswerShape tags which raw payload layout an answer arrived in.
type AnswerShape int

const (
	ShapeNone AnswerShape = iota
	ShapeEmbeddedOptions
	ShapeSelectedOption
	ShapeValue
	ShapeOrdinal
)

func (s AnswerShape) String() string {
	switch s {
	case ShapeEmbeddedOptions:
		return "embedded_options"
	case ShapeSelectedOption:
		return "selected_option"
	case ShapeValue:
		return "value"
	case ShapeOrdinal:
		return "ordinal"
	default:
		return "none"
	}
}

// AnswerOption is a choice carried inside an answer payload.
type AnswerOption struct {
	Index     *int     `json:"index,omitempty"`
	Text      string   `json:"text,omitempty"`
	Profile   CodeRef  `json:"profile,omitempty"`
	Frequency CodeRef  `json:"frequency,omitempty"`
	Points    *float64 `json:"points,omitempty"`
}

func (o *AnswerOption) UnmarshalJSON(data []byte) error {
	var raw struct {
		Index         json.RawMessage `json:"index"`
		Text          string          `json:"text"`
		Label         string          `json:"label"`
		Profile       CodeRef         `json:"profile"`
		ProfileCode   CodeRef         `json:"profile_code"`
		Frequency     CodeRef         `json:"frequency"`
		FrequencyCode CodeRef         `json:"frequency_code"`
		Freq          CodeRef         `json:"freq"`
		Points        json.RawMessage `json:"points"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		// options that are not objects carry no identity
		*o = AnswerOption{}
		return nil
	}
	o.Index = parseIndex(raw.Index)
	o.Text = firstNonEmpty(raw.Text, raw.Label)
	o.Profile = firstRef(raw.Profile, raw.ProfileCode)
	o.Frequency = firstRef(raw.Frequency, raw.FrequencyCode, raw.Freq)
	o.Points = parsePoints(raw.Points)
	return nil
}

// Identified reports whether the option carries anything that can locate it
// in a weight table.
func (o *AnswerOption) Identified() bool {
	return o.Index != nil || o.Text != "" || !o.Profile.IsEmpty() || !o.Frequency.IsEmpty() || o.Points != nil
}

// AnswerValue is the pre-resolved or index-only value of shape (c).
type AnswerValue struct {
	Index   *int     `json:"index,omitempty"`
	Profile CodeRef  `json:"profile,omitempty"`
	Points  *float64 `json:"points,omitempty"`
}

// RawAnswer is a discriminated union over the tolerated answer payloads.
// Exactly the fields belonging to Shape are populated.
type RawAnswer struct {
	Shape AnswerShape `json:"-"`

	Options  []AnswerOption `json:"-"`
	Selected *int           `json:"-"`

	SelectedOption *AnswerOption `json:"-"`

	Value *AnswerValue `json:"-"`

	Ordinal *int `json:"-"`
}

func OrdinalAnswer(n int) RawAnswer {
	return RawAnswer{Shape: ShapeOrdinal, Ordinal: &n}
}

func EmbeddedOptionsAnswer(options []AnswerOption, selected int) RawAnswer {
	return RawAnswer{Shape: ShapeEmbeddedOptions, Options: options, Selected: &selected}
}

func SelectedOptionAnswer(option AnswerOption) RawAnswer {
	return RawAnswer{Shape: ShapeSelectedOption, SelectedOption: &option}
}

func ValueAnswer(value AnswerValue) RawAnswer {
	return RawAnswer{Shape: ShapeValue, Value: &value}
}

// UnmarshalJSON never fails on unrecognized layouts; they decode to ShapeNone.
func (a *RawAnswer) UnmarshalJSON(data []byte) error {
	*a = RawAnswer{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '{':
		a.decodeObject(trimmed)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
				*a = OrdinalAnswer(n)
			}
		}
	default:
		if idx := parseIndex(trimmed); idx != nil {
			*a = OrdinalAnswer(*idx)
		}
	}
	return nil
}

func (a *RawAnswer) decodeObject(data []byte) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return
	}

	if rawOptions, ok := fields["options"]; ok {
		selected := parseIndex(fields["selected"])
		if selected == nil {
			selected = parseIndex(fields["selected_index"])
		}
		var options []AnswerOption
		if err := json.Unmarshal(rawOptions, &options); err == nil && selected != nil {
			*a = EmbeddedOptionsAnswer(options, *selected)
			return
		}
	}

	for _, key := range []string{"selectedOption", "selected_option"} {
		if raw, ok := fields[key]; ok && !isNull(raw) {
			var option AnswerOption
			if err := json.Unmarshal(raw, &option); err == nil {
				*a = SelectedOptionAnswer(option)
				return
			}
		}
	}

	if raw, ok := fields["value"]; ok && !isNull(raw) {
		var value struct {
			Index   json.RawMessage `json:"index"`
			Profile CodeRef         `json:"profile"`
			Points  json.RawMessage `json:"points"`
		}
		if err := json.Unmarshal(raw, &value); err == nil {
			v := AnswerValue{
				Index:   parseIndex(value.Index),
				Profile: value.Profile,
				Points:  parsePoints(value.Points),
			}
			if v.Index != nil || !v.Profile.IsEmpty() {
				*a = ValueAnswer(v)
			}
		}
	}
}

// MarshalJSON renders the answer back in its original shape.
func (a RawAnswer) MarshalJSON() ([]byte, error) {
	switch a.Shape {
	case ShapeEmbeddedOptions:
		return json.Marshal(map[string]any{"options": a.Options, "selected": a.Selected})
	case ShapeSelectedOption:
		return json.Marshal(map[string]any{"selectedOption": a.SelectedOption})
	case ShapeValue:
		return json.Marshal(map[string]any{"value": a.Value})
	case ShapeOrdinal:
		return json.Marshal(a.Ordinal)
	default:
		return []byte("null"), nil
	}
}

// AnswerRecord is one respondent answer as submitted by the front end.
type AnswerRecord struct {
	QuestionID uint      `json:"question_id" validate:"required"`
	Answer     RawAnswer `json:"answer"`
}

func parseIndex(raw json.RawMessage) *int {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	i, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil || f != float64(int64(f)) {
			return nil
		}
		i = int64(f)
	}
	v := int(i)
	return &v
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstRef(refs ...CodeRef) CodeRef {
	for _, r := range refs {
		if !r.IsEmpty() {
			return r
		}
	}
	return ""
}
