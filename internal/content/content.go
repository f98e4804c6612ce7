// Package content serves the static help, use-case and marketing copy of the portal.
package content

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed content.toml
var contentFile string

type FAQ struct {
	ID       int    `toml:"id" json:"id"`
	Question string `toml:"question" json:"question"`
	Answer   string `toml:"answer" json:"answer"`
}

type Doc struct {
	Title string `toml:"title" json:"title"`
	Kind  string `toml:"kind" json:"kind"`
	URL   string `toml:"url" json:"url"`
}

type ContactChannel struct {
	Label string `toml:"label" json:"label"`
	Value string `toml:"value" json:"value"`
}

// Case is one event in the use-case gallery. Featured cases also run in the dashboard carousel.
type Case struct {
	ID       int    `toml:"id" json:"id"`
	Title    string `toml:"title" json:"title"`
	Location string `toml:"location" json:"location"`
	Industry string `toml:"industry" json:"industry"`
	Image    string `toml:"image" json:"image"`
	Featured bool   `toml:"featured" json:"featured"`
}

type Testimonial struct {
	ID       int    `toml:"id" json:"id"`
	Name     string `toml:"name" json:"name"`
	Role     string `toml:"role" json:"role"`
	Company  string `toml:"company" json:"company"`
	Content  string `toml:"content" json:"content"`
	Initials string `toml:"initials" json:"initials"`
}

type Partner struct {
	Name string `toml:"name" json:"name"`
	Logo string `toml:"logo" json:"logo"`
}

// Help is everything the help page shows next to the support form.
type Help struct {
	FAQs    []FAQ            `json:"faqs"`
	Docs    []Doc            `json:"docs"`
	Contact []ContactChannel `json:"contact"`
}

type Library struct {
	FAQs         []FAQ            `toml:"faqs"`
	Docs         []Doc            `toml:"docs"`
	Contact      []ContactChannel `toml:"contact"`
	Cases        []Case           `toml:"cases"`
	Testimonials []Testimonial    `toml:"testimonials"`
	Partners     []Partner        `toml:"partners"`
}

// Load parses the embedded content file.
func Load() (*Library, error) {
	var l Library
	if _, err := toml.Decode(contentFile, &l); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	return &l, nil
}

func (l *Library) Help() Help {
	return Help{
		FAQs:    append([]FAQ(nil), l.FAQs...),
		Docs:    append([]Doc(nil), l.Docs...),
		Contact: append([]ContactChannel(nil), l.Contact...),
	}
}

// CaseFilter narrows the gallery. Zero values match everything.
type CaseFilter struct {
	Industry string
	Featured bool
}

func (l *Library) FilterCases(f CaseFilter) []Case {
	out := []Case{}
	for _, c := range l.Cases {
		if f.Industry != "" && !strings.EqualFold(c.Industry, f.Industry) {
			continue
		}
		if f.Featured && !c.Featured {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Industries lists the distinct gallery industries in alphabetical order.
func (l *Library) Industries() []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, c := range l.Cases {
		if !seen[c.Industry] {
			seen[c.Industry] = true
			out = append(out, c.Industry)
		}
	}
	sort.Strings(out)
	return out
}
