package reviewer

import (
	"context"
	"strings"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	if strings.Contains(prompt.User, "Provide your analysis as a JSON object") {
		// 模拟小模型常见的扁平输出，外加一段说明文字。
		return "Here is my analysis:\n" +
			`{"readability":"The article is readable but dense.",` +
			`"structure":"Sections follow a logical order.",` +
			`"completeness":"Examples are sparse.",` +
			`"style_guidelines":["Use contractions to sound friendlier.","Cut filler words."]}` +
			"\nLet me know if you need more.", nil
	}

	// 改写请求：原样返回文章正文。
	body := prompt.User
	const head = "Here is an original documentation article:\n\n"
	if i := strings.Index(body, head); i >= 0 {
		body = body[i+len(head):]
	}
	if i := strings.Index(body, "\n\nBased on the following suggestions"); i >= 0 {
		body = body[:i]
	}
	return strings.TrimSpace(body), nil
}
