package descriptor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sqlcontainer/internal/query"
	"github.com/roach88/sqlcontainer/internal/sqlerr"
)

// Format is a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCUE  Format = "cue"
)

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	case ".cue":
		return FormatCUE, true
	}
	return "", false
}

// document is the wire shape shared by every format.
type document struct {
	Table   string    `yaml:"table" json:"table"`
	Columns []string  `yaml:"columns" json:"columns"`
	Filter  any       `yaml:"filter" json:"filter"`
	OrderBy []sortDoc `yaml:"order_by" json:"order_by"`
	Page    *pageDoc  `yaml:"page" json:"page"`
}

type sortDoc struct {
	Column    string `yaml:"column" json:"column"`
	Direction string `yaml:"direction" json:"direction"`
}

type pageDoc struct {
	Offset int `yaml:"offset" json:"offset"`
	Length int `yaml:"length" json:"length"`
}

// LoadFile reads and decodes the descriptor at path, choosing the format
// from its extension.
func LoadFile(path string) (query.Descriptor, error) {
	format, ok := FormatOf(path)
	if !ok {
		return query.Descriptor{}, loadError(path, nil, "unsupported file extension %q", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return query.Descriptor{}, loadError(path, err, "read descriptor")
	}
	d, err := Parse(data, format)
	if err != nil {
		var se *sqlerr.Error
		if errors.As(err, &se) {
			se.WithDetail("path", path)
		}
		return query.Descriptor{}, err
	}
	return d, nil
}

// Parse decodes a descriptor document and validates the result.
func Parse(data []byte, format Format) (query.Descriptor, error) {
	var doc document
	var err error
	switch format {
	case FormatYAML:
		err = decodeYAML(data, &doc)
	case FormatJSON:
		err = decodeJSON(data, &doc)
	case FormatCUE:
		err = decodeCUE(data, &doc)
	default:
		return query.Descriptor{}, loadError("", nil, "unsupported format %q", format)
	}
	if err != nil {
		return query.Descriptor{}, loadError("", err, "decode %s", format)
	}
	return doc.descriptor()
}

func decodeYAML(data []byte, doc *document) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeJSON(data []byte, doc *document) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	return dec.Decode(doc)
}

// decodeCUE evaluates the document, requires every value to be concrete
// and decodes its JSON form.
func decodeCUE(data []byte, doc *document) error {
	v := cuecontext.New().CompileBytes(data)
	if err := v.Err(); err != nil {
		return err
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return err
	}
	js, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	return decodeJSON(js, doc)
}

func (doc document) descriptor() (query.Descriptor, error) {
	d := query.Descriptor{
		Table:   doc.Table,
		Columns: doc.Columns,
	}
	if doc.Filter != nil {
		p, err := parsePredicate(doc.Filter, "filter")
		if err != nil {
			return query.Descriptor{}, err
		}
		d.Filter = p
	}
	for i, s := range doc.OrderBy {
		dir, err := query.ParseDirection(s.Direction)
		if err != nil {
			return query.Descriptor{}, loadError("", nil, "order_by[%d]: %v", i, err)
		}
		d.OrderBy = append(d.OrderBy, query.SortKey{Column: s.Column, Direction: dir})
	}
	if doc.Page != nil {
		d.Page = &query.Page{Offset: doc.Page.Offset, Length: doc.Page.Length}
	}
	if err := query.Validate(d); err != nil {
		return query.Descriptor{}, err
	}
	return d, nil
}

func loadError(path string, err error, format string, args ...any) *sqlerr.Error {
	var e *sqlerr.Error
	if err != nil {
		e = sqlerr.Wrap(sqlerr.CodeLoadFailed, err, format, args...)
	} else {
		e = sqlerr.New(sqlerr.CodeLoadFailed, format, args...)
	}
	if path != "" {
		e.WithDetail("path", path)
	}
	return e
}

// errorf reports a malformed node at path.
func errorf(path, format string, args ...any) error {
	return loadError("", nil, "%s: %s", path, fmt.Sprintf(format, args...))
}
