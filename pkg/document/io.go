package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/structboard/pkg/diagram"
	"github.com/matzehuels/structboard/pkg/errors"
)

// Format is a document encoding.
type Format string

// Supported document encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown document extension %q", filepath.Ext(path))
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q (want json or yaml)", s)
}

// =============================================================================
// Document Serialization API
// =============================================================================

// Marshal encodes a diagram in the given format.
func Marshal(d *diagram.Document, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, d, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes a diagram to w.
func Write(w io.Writer, d *diagram.Document, f Format) error {
	return WriteRecords(w, Encode(d), f)
}

// WriteRecords encodes already-encoded records to w.
func WriteRecords(w io.Writer, records []Record, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", f)
	}
	return nil
}

// WriteFile writes a diagram to path, choosing the format by extension.
func WriteFile(path string, d *diagram.Document) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(out, d, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// ReadRecords parses records without rebuilding a diagram.
// Syntax errors are returned with code INVALID_DOCUMENT.
func ReadRecords(r io.Reader, f Format) ([]Record, error) {
	var records []Record
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode json")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&records); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", f)
	}
	return records, nil
}

// Read parses and decodes a diagram from r. Per-record problems are in the
// Report; the error is set only when the input cannot be parsed at all.
func Read(r io.Reader, f Format, opts ...diagram.Option) (*diagram.Document, Report, error) {
	records, err := ReadRecords(r, f)
	if err != nil {
		return nil, Report{}, err
	}
	d, rep := Decode(records, opts...)
	return d, rep, nil
}

// Unmarshal decodes a diagram from data.
func Unmarshal(data []byte, f Format, opts ...diagram.Option) (*diagram.Document, Report, error) {
	return Read(bytes.NewReader(data), f, opts...)
}

// ReadFile reads a diagram from path, choosing the format by extension.
func ReadFile(path string, opts ...diagram.Option) (*diagram.Document, Report, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, Report{}, err
	}
	in, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Report{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, Report{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()
	return Read(in, f, opts...)
}
