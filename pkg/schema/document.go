package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/dsl"
)

// Format identifies the encoding of a document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Document is a decoded grammar document.
type Document struct {
	Name     string                      `mapstructure:"name"`
	Start    string                      `mapstructure:"start"`
	Extends  string                      `mapstructure:"extends"`
	Memo     []string                    `mapstructure:"memo"`
	Rules    map[string]any              `mapstructure:"rules"`
	Mappings map[string][]domain.Mapping `mapstructure:"mappings"`

	// Parent is the document named by Extends, resolved by LoadFile.
	Parent *Document `mapstructure:"-"`
	// Path is the file the document was read from, if any.
	Path string `mapstructure:"-"`
}

// FormatOf guesses the format from a file extension. Anything but .json is YAML.
func FormatOf(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes and validates a single document. Extends is not resolved.
func Parse(data []byte, format Format) (*Document, error) {
	var raw map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse grammar json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse grammar yaml: %w", err)
		}
	}

	var doc Document
	if err := mapstructure.Decode(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode grammar: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadFile reads a document and, recursively, the documents it extends.
// Extends paths are relative to the directory of the extending file.
func LoadFile(path string) (*Document, error) {
	return loadFile(path, map[string]bool{})
}

func loadFile(path string, visiting map[string]bool) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	if visiting[abs] {
		return nil, fmt.Errorf("grammar %s extends itself", path)
	}
	visiting[abs] = true

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar: %w", err)
	}

	doc, err := Parse(data, FormatOf(abs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = abs

	if doc.Extends != "" {
		parentPath := doc.Extends
		if !filepath.IsAbs(parentPath) {
			parentPath = filepath.Join(filepath.Dir(abs), parentPath)
		}
		parent, err := loadFile(parentPath, visiting)
		if err != nil {
			return nil, err
		}
		doc.Parent = parent
	}
	return doc, nil
}

// Validate checks the structure of the document.
// Weights and templates are checked later, when the rules are compiled.
func (d *Document) Validate() error {
	var errs []error

	for name, v := range d.Rules {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, &ValidationError{Section: "rules", Reason: "rule name is empty"})
			continue
		}
		switch v.(type) {
		case string, []any, map[string]any, int, float64, bool:
		default:
			errs = append(errs, &ValidationError{Section: "rules", Name: name, Reason: "unsupported rule value", Value: v})
		}
	}

	for _, name := range d.Memo {
		if _, ok := d.Rules[name]; !ok {
			errs = append(errs, &ValidationError{Section: "memo", Name: name, Reason: "rule is not defined in this document"})
		}
	}

	for name, pairs := range d.Mappings {
		if len(pairs) == 0 {
			errs = append(errs, &ValidationError{Section: "mappings", Name: name, Reason: "mapping has no patterns"})
		}
	}

	if len(errs) > 0 {
		sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
		return &AggregateError{Errors: errs}
	}
	return nil
}

// StartSymbol returns the rule to expand, inherited from the parent when unset.
func (d *Document) StartSymbol() domain.Symbol {
	for doc := d; doc != nil; doc = doc.Parent {
		if doc.Start != "" {
			return domain.Symbol(doc.Start)
		}
	}
	return domain.StartSymbol
}

// Files lists the paths of the document and of every document it extends.
// Documents parsed from memory contribute nothing.
func (d *Document) Files() []string {
	var files []string
	for doc := d; doc != nil; doc = doc.Parent {
		if doc.Path != "" {
			files = append(files, doc.Path)
		}
	}
	return files
}

// Builder converts the document, and its parents, into a grammar builder.
func (d *Document) Builder() *dsl.Builder {
	b := dsl.New()
	d.Apply(b)
	if d.Parent != nil {
		b.Extends(d.Parent.Builder())
	}
	return b
}

// Apply declares the document's rules and mappings on b, in rule name order.
func (d *Document) Apply(b *dsl.Builder) {
	memo := make(map[string]bool, len(d.Memo))
	for _, name := range d.Memo {
		memo[name] = true
	}

	names := make([]string, 0, len(d.Rules))
	for name := range d.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rb := b.Add(domain.Symbol(name)).Raw(d.Rules[name])
		if memo[name] {
			rb.Memo()
		}
	}

	for name, pairs := range d.Mappings {
		b.Mapping(name, pairs...)
	}
}
