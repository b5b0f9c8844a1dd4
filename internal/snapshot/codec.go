package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmpty      = errors.New("snapshot is empty")
	ErrUnparsable = errors.New("snapshot is not a valid plan document")
)

// Format is a snapshot encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatHJSON Format = "hjson"
	FormatYAML  Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "hjson":
		return FormatHJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported snapshot format %q", s)
	}
}

// FormatFromPath picks a format from the file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".hjson":
		return FormatHJSON
	default:
		return FormatYAML
	}
}

// Encode writes doc as indented JSON or YAML.
func Encode(doc *Document, format Format) ([]byte, error) {
	out := *doc
	out.Version = CurrentVersion
	if out.Loads == nil {
		out.Loads = []LoadRecord{}
	}
	if out.Sources == nil {
		out.Sources = []SourceRecord{}
	}
	switch format {
	case FormatYAML:
		return yaml.Marshal(&out)
	case FormatJSON, "":
		return json.MarshalIndent(&out, "", "  ")
	default:
		return nil, fmt.Errorf("cannot encode snapshot as %q", format)
	}
}

// Decode parses data in the given format. Missing fields take their
// defaults. JSON that fails to parse is passed through json-repair once; the
// repaired text must still be an object, and Document.Repaired is set.
func Decode(data []byte, format Format) (*Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	var (
		doc *Document
		err error
	)
	switch format {
	case FormatJSON, "":
		doc, err = decodeJSON(data)
	case FormatHJSON:
		doc, err = decodeHJSON(data)
	case FormatYAML:
		doc, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("cannot decode snapshot as %q", format)
	}
	if err != nil {
		return nil, err
	}
	doc.fill()
	return doc, nil
}

// ReadFile decodes a snapshot file, picking the format from its extension.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	doc, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func decodeJSON(data []byte) (*Document, error) {
	doc := NewDocument()
	err := json.Unmarshal(data, doc)
	if err == nil {
		return doc, nil
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}

	repaired, rerr := jsonrepair.RepairJSON(string(data))
	if rerr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	repaired = strings.TrimSpace(repaired)
	if !strings.HasPrefix(repaired, "{") {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	doc = NewDocument()
	if err := json.Unmarshal([]byte(repaired), doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	doc.Repaired = true
	return doc, nil
}

// HJSON is decoded to a generic object first and re-marshalled so that the
// lenient JSON hooks on the records apply.
func decodeHJSON(data []byte) (*Document, error) {
	var generic any
	if err := hjson.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	if _, ok := generic.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: top level must be an object", ErrUnparsable)
	}
	raw, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	doc := NewDocument()
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	return doc, nil
}

func decodeYAML(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrUnparsable)
	}
	doc := NewDocument()
	if err := root.Content[0].Decode(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	return doc, nil
}

func (d *Document) fill() {
	if d.Version == 0 {
		d.Version = CurrentVersion
	}
	if d.Loads == nil {
		d.Loads = []LoadRecord{}
	}
	if d.Sources == nil {
		d.Sources = []SourceRecord{}
	}
}
