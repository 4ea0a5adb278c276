package io

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/layoutwriter/pkg/errors"
	"github.com/matzehuels/layoutwriter/pkg/layout"
)

// ReadYAML decodes a YAML layout file from r. Unknown fields are rejected.
func ReadYAML(r io.Reader) (*layout.Layout, error) {
	var f layoutFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
	}
	return f.build()
}

// WriteYAML encodes l as a YAML layout file.
func WriteYAML(l *layout.Layout, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fromLayout(l)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
	}
	return enc.Close()
}
