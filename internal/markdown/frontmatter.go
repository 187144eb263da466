package markdown

import (
	"bytes"
	"fmt"
	"maps"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-readtime/pkg/interfaces"
)

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. It returns the structured frontmatter, the Markdown
// body without delimiters, and any error encountered.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument assembles a document from a file path, its raw content and
// modification time. Metadata starts as a copy of the raw front matter;
// Root and BodyHTML stay empty until the document is processed.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  fm,
		Body:         body,
		Metadata:     interfaces.Metadata(maps.Clone(fm.Raw)),
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title       string         `yaml:"title"`
	Slug        string         `yaml:"slug"`
	Description string         `yaml:"description"`
	Author      string         `yaml:"author"`
	Tags        []string       `yaml:"tags"`
	PubDate     time.Time      `yaml:"pubDatetime"`
	ModDate     time.Time      `yaml:"modDatetime"`
	Draft       bool           `yaml:"draft"`
	Custom      map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	raw := make(map[string]any, len(env.Custom)+8)
	maps.Copy(raw, env.Custom)

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}
	if env.Description != "" {
		raw["description"] = env.Description
	}
	if env.Author != "" {
		raw["author"] = env.Author
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if !env.PubDate.IsZero() {
		raw["pubDatetime"] = env.PubDate
	}
	if !env.ModDate.IsZero() {
		raw["modDatetime"] = env.ModDate
	}
	raw["draft"] = env.Draft

	custom := maps.Clone(env.Custom)
	if custom == nil {
		custom = map[string]any{}
	}

	return interfaces.FrontMatter{
		Title:       env.Title,
		Slug:        env.Slug,
		Description: env.Description,
		Author:      env.Author,
		Tags:        append([]string(nil), env.Tags...),
		PubDate:     env.PubDate,
		ModDate:     env.ModDate,
		Draft:       env.Draft,
		Custom:      custom,
		Raw:         raw,
	}
}
