// Package opml reads OPML subscription lists into an outline tree
package opml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/umputun/feedbouncer/pkg/domain"
)

// Document is a parsed OPML file
type Document struct {
	XMLName  xml.Name  `xml:"opml"`
	Version  string    `xml:"version,attr"`
	Title    string    `xml:"head>title"`
	Outlines []Outline `xml:"body>outline"`
}

// Outline is a node of the outline tree, either a feed (with xmlUrl) or a folder
type Outline struct {
	Text        string    `xml:"text,attr"`
	Title       string    `xml:"title,attr,omitempty"`
	Type        string    `xml:"type,attr,omitempty"`
	XMLURL      string    `xml:"xmlUrl,attr,omitempty"`
	HTMLURL     string    `xml:"htmlUrl,attr,omitempty"`
	Description string    `xml:"description,attr,omitempty"`
	Language    string    `xml:"language,attr,omitempty"`
	Version     string    `xml:"version,attr,omitempty"`
	Children    []Outline `xml:"outline"`
}

// Parse decodes an OPML document, non-UTF-8 encodings declared in the prolog are converted
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode opml: %w", err)
	}
	return &doc, nil
}

// ParseFile reads and decodes the OPML file at path
func ParseFile(path string) (*Document, error) {
	fh, err := os.Open(path) //nolint:gosec // path comes from the import list
	if err != nil {
		return nil, fmt.Errorf("open opml %s: %w", path, err)
	}
	defer fh.Close()
	return Parse(fh)
}

// Name returns the outline title, falling back to its text
func (o Outline) Name() string {
	if strings.TrimSpace(o.Title) != "" {
		return o.Title
	}
	return o.Text
}

// Attrs returns the outline attributes without children, as stored on the imported feed
func (o Outline) Attrs() *domain.OPMLOutline {
	return &domain.OPMLOutline{
		Text:        o.Text,
		Title:       o.Title,
		Type:        o.Type,
		XMLURL:      o.XMLURL,
		HTMLURL:     o.HTMLURL,
		Description: o.Description,
		Language:    o.Language,
		Version:     o.Version,
	}
}

// Walk visits outlines depth-first, parents before children. The value returned by fn
// for a node is passed as parent to each of its children; roots get the zero value.
func Walk[T any](outlines []Outline, fn func(o Outline, parent T) T) {
	var zero T
	walk(outlines, zero, fn)
}

func walk[T any](outlines []Outline, parent T, fn func(o Outline, parent T) T) {
	for _, o := range outlines {
		id := fn(o, parent)
		walk(o.Children, id, fn)
	}
}

// Count returns the number of outline nodes in the tree
func (d *Document) Count() int {
	n := 0
	Walk(d.Outlines, func(Outline, struct{}) struct{} { n++; return struct{}{} })
	return n
}
