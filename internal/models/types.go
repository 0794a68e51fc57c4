
package models

import (
	"fmt"
	"time"
)

// NoTitle is used when a page has no usable <title>.
const NoTitle = "No title found"

// Page is a fetched and cleaned web page.
type Page struct {
	URL   string   `json:"url"`
	Title string   `json:"title"`
	Text  string   `json:"text"`
	Links []string `json:"links,omitempty"`
}

// Contents renders the page the way it is fed to the model.
func (p Page) Contents() string {
	return fmt.Sprintf("Webpage Title:\n%s\nWebpage Contents:\n%s\n\n", p.Title, p.Text)
}

// Link is one hyperlink picked by the link classifier.
type Link struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// LinkSelection is the classifier's answer.
type LinkSelection struct {
	Links []Link `json:"links"`
}

type SocialLink struct {
	Site string `json:"site"`
	URL  string `json:"url"`
}

// Brochure is a generated company brochure in markdown.
type Brochure struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	URL       string    `json:"url"`
	Markdown  string    `json:"markdown"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
