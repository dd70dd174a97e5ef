package reviewer

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr error
	}{
		{
			name: "prose around nested object",
			text: `Here is the result: {"a": {"b": 1}} Thanks!`,
			want: `{"a": {"b": 1}}`,
		},
		{
			name: "spans first open to last close",
			text: "x {\"a\": 1}\nand {\"b\": 2} y",
			want: "{\"a\": 1}\nand {\"b\": 2}",
		},
		{
			name:    "no braces",
			text:    "I could not analyze this article.",
			wantErr: ErrNoStructuredOutput,
		},
		{
			name:    "close before open",
			text:    "} nothing {",
			wantErr: ErrNoStructuredOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.text)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_FlatShape(t *testing.T) {
	raw, err := DecodeAnalysis(`{
		"readability": "clear",
		"structure": "logical",
		"completeness": "thin",
		"style_guidelines": "mostly follows the guide"
	}`)
	require.NoError(t, err)

	got := Normalize(raw)

	assert.Equal(t, ShapeFlat, got.Shape)
	for _, aspect := range Aspects {
		f := got.Get(aspect)
		assert.NotEmpty(t, f.Assessment, aspect)
		assert.NotEmpty(t, f.Suggestions, aspect)
	}
	assert.Equal(t, "clear", got.Readability.Assessment)
	assert.Equal(t, []string{
		"Improve readability clarity",
		"Use simpler structure for readability",
	}, got.Readability.Suggestions)
	assert.Equal(t, "thin", got.Completeness.Assessment)
}

func TestNormalize_FlatShapeStyleList(t *testing.T) {
	raw, err := DecodeAnalysis(`{"readability":"ok","structure":"ok","completeness":"ok","style_guidelines":["tip1","tip2"]}`)
	require.NoError(t, err)

	got := Normalize(raw)

	assert.Equal(t, AspectFeedback{Assessment: "Review", Suggestions: []string{"tip1", "tip2"}}, got.StyleGuidelines)
}

func TestNormalize_NestedIsIdentity(t *testing.T) {
	input := `{
		"readability": {"assessment": "Readable.", "suggestions": ["Shorter sentences"]},
		"structure": {"assessment": "Good flow.", "suggestions": []},
		"completeness": {"assessment": "Missing examples.", "suggestions": ["Add an example", "Link the API docs"]},
		"style_guidelines": {"assessment": "Formal.", "suggestions": ["Use contractions"]},
		"overall_score": 7
	}`
	raw, err := DecodeAnalysis(input)
	require.NoError(t, err)

	got := Normalize(raw)
	assert.Equal(t, ShapeNested, got.Shape)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestNormalize_NestedStyleGuidelinesList(t *testing.T) {
	raw, err := DecodeAnalysis(`{
		"readability": {"assessment": "fine", "suggestions": ["r1"]},
		"style_guidelines": ["tip1", "tip2"]
	}`)
	require.NoError(t, err)

	got := Normalize(raw)

	assert.Equal(t, []string{"tip1", "tip2"}, got.StyleGuidelines.Suggestions)
	assert.Equal(t, []string{"r1", "tip1", "tip2"}, got.RevisionSuggestions())
}

func TestNormalize_MixedShapeIsNotRepaired(t *testing.T) {
	raw, err := DecodeAnalysis(`{
		"readability": {"assessment": "fine", "suggestions": []},
		"completeness": "flat text"
	}`)
	require.NoError(t, err)

	got := Normalize(raw)

	assert.Equal(t, ShapeNested, got.Shape)
	assert.Equal(t, "flat text", got.Completeness.Assessment)
	assert.Empty(t, got.Completeness.Suggestions)
	assert.NotNil(t, got.Completeness.Suggestions)
}

func TestNormalize_FlatNonStringValuesKeepRawText(t *testing.T) {
	raw, err := DecodeAnalysis(`{"readability":"fine","structure":3,"completeness":["intro","examples"],"style_guidelines":null}`)
	require.NoError(t, err)

	got := Normalize(raw)

	assert.Equal(t, ShapeFlat, got.Shape)
	assert.Equal(t, "3", got.Structure.Assessment)
	assert.Len(t, got.Structure.Suggestions, 2)
	assert.Equal(t, `["intro","examples"]`, got.Completeness.Assessment)
	assert.Len(t, got.Completeness.Suggestions, 2)
	assert.Equal(t, "Review", got.StyleGuidelines.Assessment)
}

func TestNormalize_MissingKeysStillPopulated(t *testing.T) {
	raw, err := DecodeAnalysis(`{"readability":"short"}`)
	require.NoError(t, err)

	got := Normalize(raw)

	assert.Equal(t, "", got.Structure.Assessment)
	assert.Len(t, got.Structure.Suggestions, 2)
	assert.Equal(t, "Review", got.StyleGuidelines.Assessment)
	assert.NotNil(t, got.StyleGuidelines.Suggestions)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "null")
}

func TestDecodeAnalysis_LenientFeedbackFields(t *testing.T) {
	raw, err := DecodeAnalysis(`{"readability":{"assessment":"ok","suggestions":"one thing"},"structure":{"suggestions":[1,"two"]}}`)
	require.NoError(t, err)

	assert.Equal(t, KindFeedback, raw["readability"].Kind)
	assert.Equal(t, []string{"one thing"}, raw["readability"].Feedback.Suggestions)
	assert.Equal(t, []string{"1", "two"}, raw["structure"].Feedback.Suggestions)
}

func TestParseAnalysis_Errors(t *testing.T) {
	t.Run("no structured output", func(t *testing.T) {
		_, err := ParseAnalysis("Sorry, no JSON today.")

		var outErr *OutputError
		require.True(t, errors.As(err, &outErr))
		assert.Equal(t, "Sorry, no JSON today.", outErr.Raw)
		assert.ErrorIs(t, err, ErrNoStructuredOutput)
	})

	t.Run("malformed json", func(t *testing.T) {
		raw := `Result: {"readability": "ok",}`
		_, err := ParseAnalysis(raw)

		var outErr *OutputError
		require.True(t, errors.As(err, &outErr))
		assert.Equal(t, raw, outErr.Raw)
		assert.ErrorIs(t, err, ErrMalformedJSON)
	})
}

func TestParseAnalysis_FlatResponse(t *testing.T) {
	got, err := ParseAnalysis(`{"readability":"clear","structure":"clear","completeness":"clear","style_guidelines":[]}`)
	require.NoError(t, err)

	assert.Equal(t, "clear", got.Readability.Assessment)
	require.Len(t, got.Readability.Suggestions, 2)
	for _, s := range got.Readability.Suggestions {
		assert.Contains(t, s, "readability")
	}
	assert.Empty(t, got.StyleGuidelines.Suggestions)
}
