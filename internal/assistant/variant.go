package assistant

import (
	"fmt"
	"sort"

	"website-assistant/internal/tools"
)

// Variant is a prompt plus the tools the model may call with it.
type Variant struct {
	Name         string
	SystemPrompt string
	Tools        []string
}

const detailsPrompt = "You are a helpful assistant for internet users called WebsiteDetailsAI. " +
	"You analyzes the contents of several relevant pages from a company website " +
	"and creates detailed answers about the company for prospective customers, investors and recruits. " +
	"Give detailed summary answers for any website and answer questions based on the information gathered. " +
	"You are able to call a function to get the details of a website. " +
	"Always be accurate. Respond in markdown. If you don't know the answer, say so."

const socialPrompt = "You are a helpful assistant for internet users called WebsiteDetailsAI. " +
	"You analyzes the contents of several relevant pages from a company website " +
	"and creates detailed answers about the company for prospective customers, investors and recruits. " +
	"Give detailed summary answers and social media links for any website and " +
	"answer questions based on the information gathered. " +
	"You are able to call a function to get the details of a website. " +
	"You are able to call a function to get the social media links of a website. " +
	"Always be accurate. Respond in markdown. If you don't know the answer, say so."

const brochurePrompt = "You are a helpful assistant for internet users called WebsiteBrochureAI. " +
	"Give detailed brochure answers for any website and answer questions based on the information gathered. " +
	"Always be accurate. If you don't know the answer, say so."

var variants = map[string]Variant{
	"details": {
		Name:         "details",
		SystemPrompt: detailsPrompt,
		Tools:        []string{tools.WebsiteDetails},
	},
	"social": {
		Name:         "social",
		SystemPrompt: socialPrompt,
		Tools:        []string{tools.WebsiteDetails, tools.SocialLinks, tools.Screenshot},
	},
	"brochure": {
		Name:         "brochure",
		SystemPrompt: brochurePrompt,
		Tools:        []string{tools.Brochure},
	},
}

// DefaultVariant is used when none is configured.
const DefaultVariant = "details"

// Lookup returns the built-in variant called name.
func Lookup(name string) (Variant, error) {
	if name == "" {
		name = DefaultVariant
	}
	v, ok := variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("unknown variant %q (want one of %v)", name, VariantNames())
	}
	return v, nil
}

func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for n := range variants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
