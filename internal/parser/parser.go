
package parser

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"website-assistant/internal/models"
)

// irrelevant elements are dropped from <body> before text extraction.
const irrelevant = "script,style,img,input,noscript"

type Parser struct {
	markdown *md.Converter
}

type Option func(*Parser)

// WithMarkdown renders the cleaned body as GitHub flavored markdown
// instead of newline separated text.
func WithMarkdown() Option {
	return func(p *Parser) {
		conv := md.NewConverter("", true, nil)
		conv.Use(plugin.GitHubFlavored())
		p.markdown = conv
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Parser) Extract(r io.Reader, pageURL, contentType string) (models.Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Page{}, err
	}

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		if !utf8.Valid(data) {
			return models.Page{}, err
		}
		utf8data = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return models.Page{}, err
	}

	page := models.Page{URL: pageURL, Title: models.NoTitle}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		page.Title = title
	}

	// links come from the whole document, before anything is removed
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if href := s.AttrOr("href", ""); href != "" {
			page.Links = append(page.Links, href)
		}
	})

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return page, nil
	}
	body.Find(irrelevant).Remove()

	if p.markdown != nil {
		text, err := p.markdown.ConvertString(renderChildren(body))
		if err != nil {
			return models.Page{}, err
		}
		page.Text = strings.TrimSpace(text)
		return page, nil
	}
	page.Text = visibleText(body.Get(0))
	return page, nil
}

// visibleText joins every non-blank text node under n with newlines.
func visibleText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, "\n")
}

func renderChildren(s *goquery.Selection) string {
	out, err := s.Html()
	if err != nil {
		return ""
	}
	return out
}
