
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"website-assistant/internal/llm"
	"website-assistant/internal/models"
)

var (
	// ErrMalformedSelection means the model's answer was not a JSON object.
	ErrMalformedSelection = errors.New("link selection is not valid JSON")
	// ErrMissingLinks means the answer parsed but had no "links" key.
	ErrMissingLinks = errors.New(`link selection has no "links" key`)
)

// Purpose phrases for the prompts.
const (
	PurposeDetails  = "gather information and details about the company"
	PurposeBrochure = "a brochure about the company"
)

const linkExample = `
{
    "links": [
        {"type": "about page", "url": "https://full.url/goes/here/about"},
        {"type": "careers page", "url": "https://another.full.url/careers"}
    ]
}
`

var skipRe = regexp.MustCompile(`(?i)^(mailto:|tel:|javascript:|sms:|#)`)

type Classifier struct {
	provider llm.Provider
	purpose  string
	filter   bool
	log      *slog.Logger
}

type Option func(*Classifier)

// WithPurpose sets what the selected links are for.
func WithPurpose(purpose string) Option {
	return func(c *Classifier) { c.purpose = purpose }
}

// WithoutFilter sends every link to the model, including mailto: and friends.
func WithoutFilter() Option {
	return func(c *Classifier) { c.filter = false }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) { c.log = l }
}

func New(provider llm.Provider, opts ...Option) *Classifier {
	c := &Classifier{
		provider: provider,
		purpose:  PurposeDetails,
		filter:   true,
		log:      slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SystemPrompt is the instruction given to the model.
func (c *Classifier) SystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are provided with a list of links found on a webpage. ")
	purpose := c.purpose
	if purpose == PurposeDetails {
		purpose = "include " + purpose
	} else {
		purpose = "include in " + purpose
	}
	fmt.Fprintf(&b, "You are able to decide which of the links would be most relevant to %s, ", purpose)
	b.WriteString("such as links to an About page, or a Company page, or Careers/Jobs pages.\n")
	b.WriteString("You should respond in JSON as in this example:")
	b.WriteString(linkExample)
	return b.String()
}

// UserPrompt lists the page's links for the model.
func (c *Classifier) UserPrompt(page models.Page) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here is the list of links on the website of %s - ", page.URL)
	fmt.Fprintf(&b, "please decide which of these are relevant web links for %s, ", c.purpose)
	b.WriteString("respond with the full https URL in JSON format. ")
	b.WriteString("Do not include Terms of Service, Privacy, email links.\n")
	b.WriteString("Links (some might be relative links):\n")
	b.WriteString(strings.Join(c.candidates(page.Links), "\n"))
	return b.String()
}

// candidates drops links that can never be company pages.
func (c *Classifier) candidates(links []string) []string {
	if !c.filter {
		return links
	}
	seen := make(map[string]struct{}, len(links))
	out := make([]string, 0, len(links))
	for _, l := range links {
		l = strings.TrimSpace(l)
		if l == "" || skipRe.MatchString(l) {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// Classify asks the model which links of page are worth fetching.
func (c *Classifier) Classify(ctx context.Context, page models.Page) (models.LinkSelection, error) {
	resp, err := c.provider.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: c.SystemPrompt()},
			{Role: llm.RoleUser, Content: c.UserPrompt(page)},
		},
		JSONMode: true,
		Purpose:  "classify_links",
	})
	if err != nil {
		return models.LinkSelection{}, fmt.Errorf("classify links of %s: %w", page.URL, err)
	}

	sel, err := ParseSelection(resp.Content)
	if err != nil {
		return models.LinkSelection{}, fmt.Errorf("classify links of %s: %w", page.URL, err)
	}
	for i := range sel.Links {
		sel.Links[i].URL = resolve(page.URL, sel.Links[i].URL)
	}
	c.log.Debug("links selected", "url", page.URL, "count", len(sel.Links))
	return sel, nil
}

// ParseSelection decodes the model's JSON answer. The "links" key must be
// present and hold a list.
func ParseSelection(content string) (models.LinkSelection, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return models.LinkSelection{}, fmt.Errorf("%w: %v", ErrMalformedSelection, err)
	}
	links, ok := raw["links"]
	if !ok || string(links) == "null" {
		return models.LinkSelection{}, ErrMissingLinks
	}
	var sel models.LinkSelection
	if err := json.Unmarshal(links, &sel.Links); err != nil {
		return models.LinkSelection{}, fmt.Errorf("%w: links: %v", ErrMalformedSelection, err)
	}
	for i, l := range sel.Links {
		if strings.TrimSpace(l.URL) == "" {
			return models.LinkSelection{}, fmt.Errorf("%w: link %d has no url", ErrMalformedSelection, i)
		}
	}
	return sel, nil
}

// resolve makes ref absolute against base. Unparseable input is returned as is.
func resolve(base, ref string) string {
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil || r.IsAbs() {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
