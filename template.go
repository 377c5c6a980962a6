package reportgen

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/quillforge/go-reportgen/internal/fileutil"
)

// Heading level bounds for sections.
const (
	MinHeadingLevel = 1
	MaxHeadingLevel = 6
)

// templateVersion is stamped on newly built templates.
const templateVersion = "1.1.0"

// metadataHeading titles the metadata block at the top of a rendered document.
const metadataHeading = "## 元数据"

// Section is one titled node in a template's content tree. A section
// exclusively owns its subsections; the structure is a pure tree with no
// sharing and no back-references.
type Section struct {
	Title       string
	Content     string // raw template text, may contain placeholders
	Level       int    // heading level, clamped to [1,6]
	Subsections []*Section
}

// NewSection creates a section with the level clamped into [1,6].
func NewSection(title, content string, level int) *Section {
	return &Section{
		Title:   title,
		Content: content,
		Level:   clampLevel(level),
	}
}

func clampLevel(level int) int {
	if level < MinHeadingLevel {
		return MinHeadingLevel
	}
	if level > MaxHeadingLevel {
		return MaxHeadingLevel
	}
	return level
}

// AddSubsection appends a child section. Titles need not be unique.
func (s *Section) AddSubsection(sub *Section) {
	s.Subsections = append(s.Subsections, sub)
}

// ToMarkdown renders the section and its subtree as Markdown using a
// depth-first pre-order traversal. Placeholders are emitted verbatim.
func (s *Section) ToMarkdown() string {
	var b strings.Builder
	s.writeMarkdown(&b)
	return b.String()
}

func (s *Section) writeMarkdown(b *strings.Builder) {
	b.WriteString(strings.Repeat("#", clampLevel(s.Level)))
	b.WriteString(" ")
	b.WriteString(s.Title)
	b.WriteString("\n\n")
	if s.Content != "" {
		b.WriteString(s.Content)
		b.WriteString("\n\n")
	}
	for _, sub := range s.Subsections {
		sub.writeMarkdown(b)
	}
}

// Document converts the section subtree to its serializable form.
func (s *Section) Document() SectionDocument {
	doc := SectionDocument{
		Title:       s.Title,
		Content:     s.Content,
		Level:       clampLevel(s.Level),
		Subsections: []SectionDocument{},
	}
	for _, sub := range s.Subsections {
		doc.Subsections = append(doc.Subsections, sub.Document())
	}
	return doc
}

// Template describes a report's structure: title, description, free-form
// metadata shown at the top of the document, and an ordered section tree.
// Templates are treated as immutable once rendering begins; edits happen
// by rebuilding before generation.
type Template struct {
	Title       string
	Description string
	Metadata    map[string]any
	Sections    []*Section
	Version     string
	CreatedAt   string // RFC 3339
}

// NewTemplate creates an empty template stamped with the current version
// and creation time. metadata may be nil.
func NewTemplate(title, description string, metadata map[string]any) *Template {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Template{
		Title:       title,
		Description: description,
		Metadata:    metadata,
		Version:     templateVersion,
		CreatedAt:   time.Now().Format(time.RFC3339),
	}
}

// AddSection appends a top-level section.
func (t *Template) AddSection(s *Section) {
	t.Sections = append(t.Sections, s)
}

// ToMarkdown renders the whole template as Markdown. The traversal is
// deterministic: metadata keys are emitted in sorted order so that equal
// templates produce byte-identical output. Never fails.
func (t *Template) ToMarkdown() string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(t.Title)
	b.WriteString("\n\n")

	if t.Description != "" {
		b.WriteString(t.Description)
		b.WriteString("\n\n")
	}

	if len(t.Metadata) > 0 {
		b.WriteString(metadataHeading)
		b.WriteString("\n\n")
		keys := make([]string, 0, len(t.Metadata))
		for k := range t.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- **%s**: %v\n", k, t.Metadata[k])
		}
		b.WriteString("\n")
	}

	for _, s := range t.Sections {
		s.writeMarkdown(&b)
	}
	return b.String()
}

// SectionDocument is the persisted form of a Section.
type SectionDocument struct {
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	Level       int               `json:"level"`
	Subsections []SectionDocument `json:"subsections"`
}

// TemplateDocument is the persisted form of a Template. This is the sole
// on-disk format the engine reads and writes.
type TemplateDocument struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Metadata    map[string]any    `json:"metadata"`
	Sections    []SectionDocument `json:"sections"`
	Version     string            `json:"version"`
	CreatedAt   string            `json:"created_at"`
}

// Document converts the template to its serializable form.
func (t *Template) Document() TemplateDocument {
	doc := TemplateDocument{
		Title:       t.Title,
		Description: t.Description,
		Metadata:    t.Metadata,
		Sections:    []SectionDocument{},
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
	}
	if doc.Metadata == nil {
		doc.Metadata = map[string]any{}
	}
	for _, s := range t.Sections {
		doc.Sections = append(doc.Sections, s.Document())
	}
	return doc
}

// MarshalDocument serializes the template as indented JSON.
func (t *Template) MarshalDocument() ([]byte, error) {
	data, err := json.MarshalIndent(t.Document(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing template: %w", err)
	}
	return append(data, '\n'), nil
}

// SaveFile writes the template's structured document to path atomically.
func (t *Template) SaveFile(path string) error {
	data, err := t.MarshalDocument()
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("writing template file: %w", err)
	}
	return nil
}

// rawTemplate and rawSection exist to distinguish absent fields from
// zero values during validation.
type rawTemplate struct {
	Title       *string         `json:"title"`
	Description string          `json:"description"`
	Metadata    map[string]any  `json:"metadata"`
	Sections    json.RawMessage `json:"sections"`
	Version     string          `json:"version"`
	CreatedAt   string          `json:"created_at"`
}

type rawSection struct {
	Title       *string           `json:"title"`
	Content     string            `json:"content"`
	Level       *int              `json:"level"`
	Subsections []json.RawMessage `json:"subsections"`
}

// ParseTemplate builds a Template from a structured JSON document.
// A payload missing "title" or carrying malformed "sections" is rejected
// with an error matching ErrTemplateFormat that names the offending field.
func ParseTemplate(data []byte) (*Template, error) {
	var raw rawTemplate
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateFormat, err)
	}
	if raw.Title == nil {
		return nil, fmt.Errorf("%w: missing required field %q", ErrTemplateFormat, "title")
	}

	t := &Template{
		Title:       *raw.Title,
		Description: raw.Description,
		Metadata:    raw.Metadata,
		Version:     raw.Version,
		CreatedAt:   raw.CreatedAt,
	}
	if t.Metadata == nil {
		t.Metadata = map[string]any{}
	}
	if t.Version == "" {
		t.Version = "1.0.0"
	}
	if t.CreatedAt == "" {
		t.CreatedAt = time.Now().Format(time.RFC3339)
	}

	sections, err := parseSections(raw.Sections)
	if err != nil {
		return nil, err
	}
	t.Sections = sections
	return t, nil
}

func parseSections(raw json.RawMessage) ([]*Section, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: malformed field %q: %v", ErrTemplateFormat, "sections", err)
	}
	sections := make([]*Section, 0, len(entries))
	for _, entry := range entries {
		s, err := parseSection(entry)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, nil
}

func parseSection(data json.RawMessage) (*Section, error) {
	var raw rawSection
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed field %q: %v", ErrTemplateFormat, "sections", err)
	}
	if raw.Title == nil {
		return nil, fmt.Errorf("%w: section missing required field %q", ErrTemplateFormat, "title")
	}

	level := 1
	if raw.Level != nil {
		level = *raw.Level
	}
	s := NewSection(*raw.Title, raw.Content, level)
	for _, sub := range raw.Subsections {
		child, err := parseSection(sub)
		if err != nil {
			return nil, err
		}
		s.AddSubsection(child)
	}
	return s, nil
}

// LoadTemplateFile reads a structured template document from disk.
func LoadTemplateFile(path string) (*Template, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- template path is caller-provided
	if err != nil {
		return nil, fmt.Errorf("reading template file: %w", err)
	}
	return ParseTemplate(data)
}
