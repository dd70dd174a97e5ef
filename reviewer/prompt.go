package reviewer

import (
	"fmt"
	"strings"
)

// NoSuggestionsMarker replaces the bullet list when there is nothing to apply.
const NoSuggestionsMarker = "No suggestions provided."

// Prompt 表示发送给 LLM 的一次请求。
type Prompt struct {
	System string
	User   string
}

// Text joins the prompt for collaborators that only accept a single string.
func (p Prompt) Text() string {
	if p.System == "" {
		return p.User
	}
	return p.System + "\n\n" + p.User
}

// BuildAnalysisPrompt 生成文档分析提示词。
func BuildAnalysisPrompt(title, body string) Prompt {
	var sb strings.Builder
	sb.WriteString("Analyze the following documentation article and provide actionable suggestions based on:\n\n")
	sb.WriteString("1. Readability for a marketer (explain why it is or isn't readable).\n")
	sb.WriteString("2. Structure and flow (headings, paragraphs, lists, logical order).\n")
	sb.WriteString("3. Completeness of information and examples (are details and examples sufficient?).\n")
	sb.WriteString("4. Adherence to Microsoft Style Guide tips:\n")
	sb.WriteString("   - Use bigger ideas, fewer words.\n")
	sb.WriteString("   - Write like you speak.\n")
	sb.WriteString("   - Project friendliness with contractions.\n\n")
	sb.WriteString(fmt.Sprintf("Article Title: %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Article Content:\n%s\n\n", body))
	sb.WriteString(fmt.Sprintf("Provide your analysis as a JSON object with keys: %s.\n", aspectList()))
	sb.WriteString("Each key should have 'assessment' (string) and 'suggestions' (list of strings).\n")

	return Prompt{
		System: "You are a documentation analyzer assistant.",
		User:   sb.String(),
	}
}

// BuildRevisionPrompt 根据分析结果生成改写提示词。
func BuildRevisionPrompt(body string, analysis Analysis) Prompt {
	var sb strings.Builder
	sb.WriteString("Here is an original documentation article:\n\n")
	sb.WriteString(body)
	sb.WriteString("\n\n")
	sb.WriteString("Based on the following suggestions, please rewrite the article to improve readability and style while keeping the original meaning intact:\n\n")
	sb.WriteString(suggestionsBlock(analysis.RevisionSuggestions()))
	sb.WriteString("\n\n")
	sb.WriteString("Please output only the revised article text, with no introduction, notes or commentary.\n")

	return Prompt{
		System: "You are a skilled technical writer assistant.",
		User:   sb.String(),
	}
}

func suggestionsBlock(items []string) string {
	var lines []string
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		lines = append(lines, "- "+s)
	}
	if len(lines) == 0 {
		return NoSuggestionsMarker
	}
	return strings.Join(lines, "\n")
}

func aspectList() string {
	names := make([]string, len(Aspects))
	for i, a := range Aspects {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}
