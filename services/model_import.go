package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedModelFile is returned for uploads that are not .json
// property documents.
var ErrUnsupportedModelFile = errors.New("unsupported file format: must be .json")

// ModelImport is a parsed upload ready to be stored.
type ModelImport struct {
	Model    *Model
	FileName string
	// Location is the store path the locator would read, empty when the
	// document has none.
	Location string
	Records  int
}

// HasPropertyStore reports whether extraction will find anything to read.
func (i *ModelImport) HasPropertyStore() bool {
	return i.Location != ""
}

// ParseModel decodes an uploaded property document. The document must be
// a JSON object; its optional "uuid" and "name" fields identify the model,
// otherwise a fresh uuid and the file name are used.
func ParseModel(r io.Reader, fileName string) (*ModelImport, error) {
	if !strings.HasSuffix(strings.ToLower(fileName), ".json") {
		return nil, ErrUnsupportedModelFile
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	raw, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("model document must be a JSON object, got %s", jsonKind(doc))
	}

	id, ok := DecodeValue(raw["uuid"]).String()
	if !ok {
		id = uuid.NewString()
	}
	name, ok := DecodeValue(raw["name"]).String()
	if !ok {
		name = strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	}

	m := &Model{ID: id, Name: name, Raw: raw}
	result := &ModelImport{Model: m, FileName: fileName}
	if store, location, ok := NewPropertyLocator().Locate(m); ok {
		result.Location = location
		result.Records = len(store)
	}
	return result, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
