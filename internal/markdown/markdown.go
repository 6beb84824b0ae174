// Package markdown converts notes to and from Markdown files with YAML
// front matter.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pders01/omnivault/internal/models"
	"gopkg.in/yaml.v3"
)

// FrontMatter is the YAML header of an exported note.
type FrontMatter struct {
	ID        string    `yaml:"id,omitempty"`
	Title     string    `yaml:"title,omitempty"`
	Tags      []string  `yaml:"tags,omitempty"`
	UpdatedAt time.Time `yaml:"updated_at,omitempty"`
	SourceURL string    `yaml:"source_url,omitempty"`
	ImageURL  string    `yaml:"image_url,omitempty"`
}

// Document is a parsed Markdown note.
type Document struct {
	Meta    FrontMatter
	Content string
}

var errUnterminated = errors.New("front matter started but no closing delimiter found")

// Render serializes a note as Markdown with front matter.
func Render(n models.Note) ([]byte, error) {
	meta := FrontMatter{
		ID:        n.ID,
		Title:     n.Title,
		Tags:      n.Tags,
		SourceURL: n.SourceURL,
		ImageURL:  n.ImageURL,
	}
	if n.UpdatedAt != 0 {
		meta.UpdatedAt = n.UpdatedTime().UTC()
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}
	buf.WriteString("---\n")
	buf.WriteString(n.Content)
	if !strings.HasSuffix(n.Content, "\n") {
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// Parse reads a Markdown note. Files without front matter are all content.
func Parse(data []byte) (Document, error) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return Document{Content: strings.TrimSpace(string(data))}, nil
	}

	rest := data[len("---\n"):]
	var header, body []byte
	switch {
	case bytes.HasPrefix(rest, []byte("---\n")):
		body = rest[len("---\n"):]
	default:
		end := bytes.Index(rest, []byte("\n---\n"))
		if end < 0 {
			if !bytes.HasSuffix(rest, []byte("\n---")) {
				return Document{}, errUnterminated
			}
			end = len(rest) - len("\n---")
			header, body = rest[:end], nil
		} else {
			header, body = rest[:end], rest[end+len("\n---\n"):]
		}
	}

	var doc Document
	if err := yaml.Unmarshal(header, &doc.Meta); err != nil {
		return Document{}, fmt.Errorf("failed to parse front matter: %w", err)
	}
	doc.Content = strings.TrimSpace(string(body))
	return doc, nil
}

var headingTitle = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// Title returns the front matter title, else the first level-one heading.
func (d Document) Title() string {
	if t := strings.TrimSpace(d.Meta.Title); t != "" {
		return t
	}
	if m := headingTitle.FindStringSubmatch(d.Content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

// Filename returns a stable file name for an exported note.
func Filename(n models.Note) string {
	slug := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(n.Title), "-"), "-")
	if len(slug) > 60 {
		slug = strings.Trim(slug[:60], "-")
	}
	if slug == "" {
		return n.ID + ".md"
	}
	return slug + "-" + n.ID + ".md"
}
