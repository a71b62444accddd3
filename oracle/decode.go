package oracle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tidwall/jsonc"
)

var (
	// ErrNoObject means the text holds no balanced {...} object.
	ErrNoObject = errors.New("no JSON object found in oracle response")
	// ErrMalformed means the extracted object is not valid JSON.
	ErrMalformed = errors.New("oracle response object is not valid JSON")
	// ErrSchemaMismatch means the object does not have the expected shape.
	ErrSchemaMismatch = errors.New("oracle response does not match schema")
)

// FirstObject returns the first balanced brace-delimited object in text.
// Braces inside JSON string literals, including escaped quotes, do not
// affect the balance. Surrounding prose and code fences are ignored.
func FirstObject(text string) (string, bool) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end, ok := matchBrace(text, start); ok {
			return text[start : end+1], true
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// matchBrace returns the index of the brace closing the one at start.
func matchBrace(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return -1, false
}

// Decoder extracts, normalizes and validates an oracle reply against a
// compiled JSON Schema before unmarshalling it.
type Decoder struct {
	name   string
	schema *jsonschema.Schema
}

// NewDecoder compiles schemaJSON. name is used as the schema resource URL
// and in error messages.
func NewDecoder(name, schemaJSON string) (*Decoder, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parsing %s schema: %w", name, err)
	}

	url := name + ".schema.json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("adding %s schema: %w", name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compiling %s schema: %w", name, err)
	}

	return &Decoder{name: name, schema: sch}, nil
}

// MustDecoder is like NewDecoder but panics on error. It is meant for
// package-level schemas known at compile time.
func MustDecoder(name, schemaJSON string) *Decoder {
	d, err := NewDecoder(name, schemaJSON)
	if err != nil {
		panic(err)
	}
	return d
}

// Decode finds the first object in raw and unmarshals it into v. Comments
// and trailing commas are stripped before parsing. The returned error wraps
// ErrNoObject, ErrMalformed or ErrSchemaMismatch.
func (d *Decoder) Decode(raw string, v any) error {
	obj, ok := FirstObject(raw)
	if !ok {
		return fmt.Errorf("%s: %w", d.name, ErrNoObject)
	}

	normalized := jsonc.ToJSON([]byte(obj))

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(normalized))
	if err != nil {
		return fmt.Errorf("%s: %w: %v", d.name, ErrMalformed, err)
	}
	if err := d.schema.Validate(doc); err != nil {
		return fmt.Errorf("%s: %w: %v", d.name, ErrSchemaMismatch, err)
	}

	if err := json.Unmarshal(normalized, v); err != nil {
		return fmt.Errorf("%s: %w: %v", d.name, ErrMalformed, err)
	}
	return nil
}
