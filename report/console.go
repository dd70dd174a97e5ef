package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/yuin/goldmark"

	"doc_reviewer/extractor"
	"doc_reviewer/reviewer"
)

// Output formats for the revised article.
const (
	FormatText = "text"
	FormatHTML = "html"
)

// Console writes each stage's result as it arrives.
type Console struct {
	p            *Printer
	previewChars int
	format       string
}

func NewConsole(p *Printer, previewChars int, format string) *Console {
	if format == "" {
		format = FormatText
	}
	return &Console{p: p, previewChars: previewChars, format: format}
}

func (c *Console) ArticleExtracted(a extractor.Article) {
	c.p.Print("Title: %s", a.Title)
	c.p.Header("Article Preview")
	c.p.Print("%s", Preview(a.Body, c.previewChars))
	c.p.Info("\nSending article to the model for analysis...")
}

func (c *Console) AnalysisReady(a reviewer.Analysis) {
	c.p.Header("Analysis Result")
	if err := c.renderTable(a); err != nil {
		c.p.Warning("render summary table: %v", err)
	}

	pretty, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		c.p.Error("render analysis: %v", err)
		return
	}
	c.p.Print("\n%s", pretty)
	c.p.Info("\nGenerating revised article based on readability and style suggestions...")
}

func (c *Console) RevisionReady(revised string) {
	c.p.Header("Revised Article")
	if c.format == FormatHTML {
		html, err := MarkdownToHTML(revised)
		if err == nil {
			c.p.Print("%s", strings.TrimSpace(html))
			return
		}
		c.p.Warning("render html failed, printing text: %v", err)
	}
	c.p.Print("%s", revised)
}

func (c *Console) renderTable(a reviewer.Analysis) error {
	table := tablewriter.NewTable(c.p.Out(),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNormal},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
	)
	rows := make([][]string, 0, len(reviewer.Aspects))
	for _, aspect := range reviewer.Aspects {
		f := a.Get(aspect)
		rows = append(rows, []string{string(aspect), f.Assessment, strconv.Itoa(len(f.Suggestions))})
	}
	table.Header([]string{"Aspect", "Assessment", "Suggestions"})
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("table rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("table render: %w", err)
	}
	return nil
}

// Preview returns at most limit runes of body. A limit of zero disables truncation.
func Preview(body string, limit int) string {
	if limit <= 0 {
		return body
	}
	runes := []rune(body)
	if len(runes) <= limit {
		return body
	}
	return string(runes[:limit])
}

// MarkdownToHTML renders the revised article, which models usually write in Markdown.
func MarkdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
