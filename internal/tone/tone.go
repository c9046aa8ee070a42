// Package tone loads the prompt templates that control the style of a correction.
//
// A bundled list is compiled into the binary. A user file at
// ~/.config/typozap/tones.json replaces it when present and valid, and is
// reloaded whenever it changes on disk.
package tone

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dooshek/typozap/internal/logger"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Placeholder is replaced with the selected text when a prompt is rendered
const Placeholder = "{text}"

//go:embed resources/tones.json
var bundledTones []byte

//go:embed resources/tones.schema.json
var tonesSchema []byte

const tonesSchemaURL = "tones.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(tonesSchemaURL, bytes.NewReader(tonesSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile(tonesSchemaURL)
})

// Default is used whenever the selected tone cannot be resolved
var Default = Tone{
	Title:       "Default",
	Description: "Fix grammar, spelling and punctuation only",
	Prompt: "Please correct the grammar, spelling, and punctuation in the following text.\n" +
		"Return only the corrected text without any explanations or additional formatting:\n\n" + Placeholder,
}

var (
	ErrNoTones            = errors.New("tone list is empty")
	ErrMissingTitle       = errors.New("tone has no title")
	ErrMissingPlaceholder = errors.New("tone prompt has no " + Placeholder + " placeholder")
)

type Tone struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

// Render substitutes text into the prompt template
func (t Tone) Render(text string) string {
	return strings.ReplaceAll(t.Prompt, Placeholder, text)
}

func (t Tone) validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrMissingTitle
	}
	if !strings.Contains(t.Prompt, Placeholder) {
		return fmt.Errorf("%q: %w", t.Title, ErrMissingPlaceholder)
	}
	return nil
}

// checkSchema reports structural problems such as a missing prompt field or
// a title that is not a string, with the JSON pointer of the offending value
func checkSchema(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("failed to compile tones schema: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse tones: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid tones file: %w", err)
	}
	return nil
}

// Parse decodes and validates a JSON tone list
func Parse(data []byte) ([]Tone, error) {
	if err := checkSchema(data); err != nil {
		return nil, err
	}
	var tones []Tone
	if err := json.Unmarshal(data, &tones); err != nil {
		return nil, fmt.Errorf("failed to parse tones: %w", err)
	}
	if len(tones) == 0 {
		return nil, ErrNoTones
	}

	seen := make(map[string]bool, len(tones))
	for _, t := range tones {
		if err := t.validate(); err != nil {
			return nil, err
		}
		key := strings.ToLower(t.Title)
		if seen[key] {
			return nil, fmt.Errorf("duplicate tone title %q", t.Title)
		}
		seen[key] = true
	}
	return tones, nil
}

// Catalog is the loaded tone list. Safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	tones    []Tone
	onChange []func([]Tone)
}

// NewCatalog returns a catalog holding the bundled tones
func NewCatalog() *Catalog {
	c := &Catalog{}
	c.set(bundled())
	return c
}

// bundled returns the embedded list, or only Default if it is somehow broken
func bundled() []Tone {
	tones, err := Parse(bundledTones)
	if err != nil {
		logger.Error("Bundled tones are invalid, using default tone only", err)
		return []Tone{Default}
	}
	return tones
}

// LoadFile replaces the catalog with the tones in path. A missing file
// restores the bundled list; an invalid file is reported and also falls back.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		c.set(bundled())
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read tones file: %w", err)
	}

	tones, err := Parse(data)
	if err != nil {
		c.set(bundled())
		return err
	}

	logger.Infof("Loaded %d tones from %s", len(tones), path)
	c.set(tones)
	return nil
}

func (c *Catalog) set(tones []Tone) {
	c.mu.Lock()
	c.tones = tones
	listeners := append([]func([]Tone){}, c.onChange...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(tones)
	}
}

// OnChange registers fn to be called with the new list after every reload
func (c *Catalog) OnChange(fn func([]Tone)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = append(c.onChange, fn)
}

// All returns a copy of the tone list
func (c *Catalog) All() []Tone {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Tone(nil), c.tones...)
}

// Lookup finds a tone by title, case-insensitively
func (c *Catalog) Lookup(title string) (Tone, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tones {
		if strings.EqualFold(t.Title, strings.TrimSpace(title)) {
			return t, true
		}
	}
	return Tone{}, false
}

// Resolve returns the named tone, or the catalog's default tone
func (c *Catalog) Resolve(title string) Tone {
	if t, ok := c.Lookup(title); ok {
		return t
	}
	if title != "" {
		logger.Debugf("Tone %q not found, using default", title)
	}
	return c.DefaultTone()
}

// DefaultTone is the entry titled like Default, else the built-in Default
func (c *Catalog) DefaultTone() Tone {
	if t, ok := c.Lookup(Default.Title); ok {
		return t
	}
	return Default
}
