package reviewer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Aspect 是分析的一个评估维度。
type Aspect string

const (
	AspectReadability     Aspect = "readability"
	AspectStructure       Aspect = "structure"
	AspectCompleteness    Aspect = "completeness"
	AspectStyleGuidelines Aspect = "style_guidelines"
)

// Aspects lists the dimensions in the order they are requested and printed.
var Aspects = []Aspect{AspectReadability, AspectStructure, AspectCompleteness, AspectStyleGuidelines}

// AspectFeedback is the canonical record for one aspect.
type AspectFeedback struct {
	Assessment  string   `json:"assessment"`
	Suggestions []string `json:"suggestions"`
}

// MarshalJSON keeps suggestions as [] rather than null.
func (f AspectFeedback) MarshalJSON() ([]byte, error) {
	type plain AspectFeedback
	p := plain(f)
	if p.Suggestions == nil {
		p.Suggestions = []string{}
	}
	return json.Marshal(p)
}

// ValueKind 标记模型返回值的实际形态。
type ValueKind int

const (
	KindOther ValueKind = iota
	KindText
	KindFeedback
	KindList
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindFeedback:
		return "feedback"
	case KindList:
		return "list"
	default:
		return "other"
	}
}

// AspectValue is one value of the raw model object, decoded into whichever
// variant the model actually produced.
type AspectValue struct {
	Kind     ValueKind
	Text     string
	Feedback AspectFeedback
	List     []string
	Raw      json.RawMessage
}

// UnmarshalJSON classifies the value by its JSON type. Object fields are read
// leniently: a string suggestion becomes a single item and non-string items
// are kept in their JSON form.
func (v *AspectValue) UnmarshalJSON(data []byte) error {
	v.Raw = append(v.Raw[:0], data...)
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		v.Kind = KindOther
		return nil
	}
	switch trimmed[0] {
	case '"':
		v.Kind = KindText
		return json.Unmarshal(trimmed, &v.Text)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		v.Kind = KindList
		v.List = stringsOf(items)
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return err
		}
		v.Kind = KindFeedback
		v.Feedback = AspectFeedback{
			Assessment:  textOf(fields["assessment"]),
			Suggestions: suggestionsOf(fields["suggestions"]),
		}
	default:
		v.Kind = KindOther
	}
	return nil
}

func textOf(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(bytes.TrimSpace(raw)) == "null" {
		return ""
	}
	return string(bytes.TrimSpace(raw))
}

func suggestionsOf(raw json.RawMessage) []string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return []string{}
	}
	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err == nil {
			return stringsOf(items)
		}
	}
	if s := textOf(trimmed); s != "" {
		return []string{s}
	}
	return []string{}
}

func stringsOf(items []json.RawMessage) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := textOf(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// RawAnalysis is the model's JSON object before normalization.
type RawAnalysis map[string]AspectValue

// Shape records which response layout normalization detected.
type Shape string

const (
	ShapeFlat   Shape = "flat"
	ShapeNested Shape = "nested"
)

// Analysis is the normalized, variant-free analysis result.
type Analysis struct {
	Readability     AspectFeedback
	Structure       AspectFeedback
	Completeness    AspectFeedback
	StyleGuidelines AspectFeedback

	// Shape is the layout the model used; not part of the JSON form.
	Shape Shape
	// Extra holds keys outside the four aspects, verbatim.
	Extra map[string]json.RawMessage
}

// Get returns the feedback for a. Unknown aspects yield an empty record.
func (a Analysis) Get(aspect Aspect) AspectFeedback {
	switch aspect {
	case AspectReadability:
		return a.Readability
	case AspectStructure:
		return a.Structure
	case AspectCompleteness:
		return a.Completeness
	case AspectStyleGuidelines:
		return a.StyleGuidelines
	default:
		return AspectFeedback{Suggestions: []string{}}
	}
}

func (a *Analysis) set(aspect Aspect, f AspectFeedback) {
	if f.Suggestions == nil {
		f.Suggestions = []string{}
	}
	switch aspect {
	case AspectReadability:
		a.Readability = f
	case AspectStructure:
		a.Structure = f
	case AspectCompleteness:
		a.Completeness = f
	case AspectStyleGuidelines:
		a.StyleGuidelines = f
	}
}

// RevisionSuggestions is what the reviser consumes: readability suggestions
// followed by style guideline suggestions.
func (a Analysis) RevisionSuggestions() []string {
	out := make([]string, 0, len(a.Readability.Suggestions)+len(a.StyleGuidelines.Suggestions))
	out = append(out, a.Readability.Suggestions...)
	out = append(out, a.StyleGuidelines.Suggestions...)
	return out
}

// MarshalJSON emits the four aspects followed by any extra keys in sorted order.
func (a Analysis) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(i int, key string, v any) error {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
		return nil
	}
	for i, aspect := range Aspects {
		if err := write(i, string(aspect), a.Get(aspect)); err != nil {
			return nil, err
		}
	}
	keys := make([]string, 0, len(a.Extra))
	for k := range a.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if err := write(len(Aspects)+i, k, a.Extra[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
