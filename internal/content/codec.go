package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/megaplex/realestate/internal/models"
)

// Document is the portable form of one section, used for the embedded
// defaults and for CLI export/import files
type Document struct {
	Section string      `yaml:"section" json:"section"`
	Data    interface{} `yaml:"data" json:"data"`
}

// DecodeDocuments reads a YAML list of sections
func DecodeDocuments(r io.Reader) ([]Document, error) {
	var docs []Document
	if err := yaml.NewDecoder(r).Decode(&docs); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode sections: %w", err)
	}

	seen := make(map[string]bool, len(docs))
	for i, doc := range docs {
		if doc.Section == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrEmptySection)
		}
		if doc.Data == nil {
			return nil, fmt.Errorf("section %q: %w", doc.Section, ErrMissingData)
		}
		if seen[doc.Section] {
			return nil, fmt.Errorf("section %q listed twice", doc.Section)
		}
		seen[doc.Section] = true
	}
	return docs, nil
}

// EncodeDocuments writes sections as a YAML list
func EncodeDocuments(w io.Writer, docs []Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("failed to encode sections: %w", err)
	}
	return enc.Close()
}

// JSON converts the document payload to its stored form
func (d Document) JSON() (models.JSON, error) {
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return nil, fmt.Errorf("section %q: %w", d.Section, err)
	}
	return models.JSON(raw), nil
}

// DocumentFrom converts a stored payload into its portable form.
// Integers keep full precision instead of passing through float64.
func DocumentFrom(section string, data models.JSON) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return Document{}, fmt.Errorf("section %q: %w", section, err)
	}
	return Document{Section: section, Data: exactNumbers(value)}, nil
}

// exactNumbers swaps json.Number for the narrowest Go number yaml.v3
// emits unquoted: int64, then uint64, then float64.
func exactNumbers(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, child := range t {
			t[k] = exactNumbers(child)
		}
		return t
	case []interface{}:
		for i, child := range t {
			t[i] = exactNumbers(child)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(t.String(), 10, 64); err == nil {
			return u
		}
		f, _ := t.Float64()
		return f
	default:
		return v
	}
}
