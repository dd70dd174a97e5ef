package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// DefaultSelector locates the article body on help-center style pages.
const DefaultSelector = "div.article__body.markdown"

// NoTitle is used when the document has no usable <title>.
const NoTitle = "No title found"

// Article is the extracted page: a title plus plain-text body, one text node per line.
type Article struct {
	URL   string `json:"url,omitempty"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ParseArticle pulls the title and the container's text out of a serialized DOM.
func ParseArticle(raw, selector string) (Article, error) {
	if selector == "" {
		selector = DefaultSelector
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return Article{}, fmt.Errorf("parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = NoTitle
	}

	container := doc.Find(selector).First()
	if container.Length() == 0 {
		return Article{}, fmt.Errorf("%w: selector %q", ErrContentMissing, selector)
	}
	inner, err := container.Html()
	if err != nil {
		return Article{}, fmt.Errorf("serialize container: %w", err)
	}

	body, err := containerText(inner)
	if err != nil {
		return Article{}, err
	}
	return Article{Title: title, Body: body}, nil
}

var sanitizer = bluemonday.UGCPolicy()

// containerText drops script/style content via the sanitizer, then joins the
// remaining text nodes with newlines, collapsing whitespace inside each node.
func containerText(inner string) (string, error) {
	clean := sanitizer.Sanitize(inner)
	frag, err := goquery.NewDocumentFromReader(strings.NewReader("<div>" + clean + "</div>"))
	if err != nil {
		return "", fmt.Errorf("parse container: %w", err)
	}

	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
				lines = append(lines, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range frag.Find("body").Nodes {
		walk(n)
	}
	return strings.Join(lines, "\n"), nil
}
