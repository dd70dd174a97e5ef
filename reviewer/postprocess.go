package reviewer

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseAnalysis turns a raw analysis completion into a normalized Analysis.
// Any failure is an *OutputError holding the raw text.
func ParseAnalysis(raw string) (Analysis, error) {
	candidate, err := ExtractJSON(raw)
	if err != nil {
		return Analysis{}, &OutputError{Raw: raw, Err: err}
	}
	obj, err := DecodeAnalysis(candidate)
	if err != nil {
		return Analysis{}, &OutputError{Raw: raw, Err: err}
	}
	return Normalize(obj), nil
}

// ExtractJSON returns the span from the first '{' to the last '}' so nested
// objects survive any prose the model wraps around them.
func ExtractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", ErrNoStructuredOutput
	}
	end := strings.LastIndex(text, "}")
	if end < start {
		return "", ErrNoStructuredOutput
	}
	return text[start : end+1], nil
}

// DecodeAnalysis decodes a candidate JSON object into its raw variants.
func DecodeAnalysis(candidate string) (RawAnalysis, error) {
	var obj RawAnalysis
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return obj, nil
}

// Normalize resolves the raw variants into the canonical Analysis.
//
// Only readability decides the layout: a bare string there means the whole
// object is flat and every aspect is wrapped. Otherwise values pass through,
// so a flat value under another key is not repaired with generated
// suggestions.
func Normalize(raw RawAnalysis) Analysis {
	out := Analysis{Shape: ShapeNested}
	if raw[string(AspectReadability)].Kind == KindText {
		out.Shape = ShapeFlat
	}

	for _, aspect := range Aspects {
		v := raw[string(aspect)]
		if out.Shape == ShapeFlat {
			out.set(aspect, wrapFlat(aspect, v))
			continue
		}
		out.set(aspect, passThrough(v))
	}

	for k, v := range raw {
		if isAspect(k) {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[k] = v.Raw
	}
	return out
}

func wrapFlat(aspect Aspect, v AspectValue) AspectFeedback {
	if aspect == AspectStyleGuidelines && v.Kind != KindText {
		// 风格建议在扁平结构中通常是字符串列表。
		f := AspectFeedback{Assessment: "Review", Suggestions: []string{}}
		switch v.Kind {
		case KindList:
			f.Suggestions = v.List
		case KindFeedback:
			f.Suggestions = v.Feedback.Suggestions
		}
		return f
	}
	return AspectFeedback{
		Assessment: assessmentOf(v),
		Suggestions: []string{
			fmt.Sprintf("Improve %s clarity", aspect),
			fmt.Sprintf("Use simpler structure for %s", aspect),
		},
	}
}

func passThrough(v AspectValue) AspectFeedback {
	switch v.Kind {
	case KindFeedback:
		return v.Feedback
	case KindList:
		return AspectFeedback{Suggestions: v.List}
	case KindText:
		return AspectFeedback{Assessment: v.Text, Suggestions: []string{}}
	default:
		return AspectFeedback{Suggestions: []string{}}
	}
}

func assessmentOf(v AspectValue) string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindFeedback:
		return v.Feedback.Assessment
	default:
		// 数字、列表等保留原始 JSON 文本。
		raw := strings.TrimSpace(string(v.Raw))
		if raw == "null" {
			return ""
		}
		return raw
	}
}

func isAspect(key string) bool {
	for _, a := range Aspects {
		if string(a) == key {
			return true
		}
	}
	return false
}
