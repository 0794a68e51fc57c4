// Package report renders command output as GitHub flavored Markdown.
package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"website-assistant/internal/models"
)

// SocialLinks writes the social links found on url as a table.
func SocialLinks(w io.Writer, url string, links []models.SocialLink) error {
	md := markdown.NewMarkdown(w)
	md.H1("Social media links")
	md.PlainText("")
	md.PlainTextf("Source: %s", url)
	md.PlainText("")
	if len(links) == 0 {
		md.PlainText("No social media links found.")
		return md.Build()
	}
	rows := make([][]string, 0, len(links))
	for _, l := range links {
		rows = append(rows, []string{l.Site, l.URL})
	}
	md.Table(markdown.TableSet{Header: []string{"Site", "URL"}, Rows: rows})
	return md.Build()
}

// Selection writes the links chosen for url.
func Selection(w io.Writer, url string, sel models.LinkSelection) error {
	md := markdown.NewMarkdown(w)
	md.H1("Relevant links")
	md.PlainText("")
	md.PlainTextf("Source: %s", url)
	md.PlainText("")
	rows := make([][]string, 0, len(sel.Links))
	for i, l := range sel.Links {
		rows = append(rows, []string{strconv.Itoa(i + 1), l.Type, l.URL})
	}
	md.Table(markdown.TableSet{Header: []string{"#", "Type", "URL"}, Rows: rows})
	return md.Build()
}

// Brochures writes the archive listing, newest first.
func Brochures(w io.Writer, list []models.Brochure) error {
	md := markdown.NewMarkdown(w)
	md.H1("Brochure history")
	md.PlainText("")
	if len(list) == 0 {
		md.PlainText("No brochures archived yet.")
		return md.Build()
	}
	rows := make([][]string, 0, len(list))
	for _, b := range list {
		rows = append(rows, []string{
			b.CreatedAt.Local().Format("2006-01-02 15:04"),
			b.Company,
			b.URL,
			b.Model,
			b.ID,
		})
	}
	md.Table(markdown.TableSet{Header: []string{"Created", "Company", "URL", "Model", "ID"}, Rows: rows})
	return md.Build()
}
