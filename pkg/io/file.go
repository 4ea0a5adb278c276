package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/layoutwriter/pkg/errors"
	"github.com/matzehuels/layoutwriter/pkg/layout"
)

// Format is a layout file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the encoding from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported layout file extension %q", filepath.Ext(path))
}

// Read decodes a layout in the given format.
func Read(r io.Reader, format Format) (*layout.Layout, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported layout format %q", format)
}

// Write encodes a layout in the given format.
func Write(l *layout.Layout, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(l, w)
	case FormatYAML:
		return WriteYAML(l, w)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported layout format %q", format)
}

// Import reads a layout file, choosing the decoder by extension.
func Import(path string) (*layout.Layout, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

// Export writes l to path, choosing the encoder by extension.
func Export(l *layout.Layout, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(l, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
