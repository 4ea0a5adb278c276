package io

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/layoutwriter/pkg/errors"
	"github.com/matzehuels/layoutwriter/pkg/layout"
)

// ReadJSON decodes a JSON layout file from r. Unknown fields are rejected.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*layout.Layout, error) {
	var f layoutFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return f.build()
}

// WriteJSON encodes l as an indented JSON layout file.
func WriteJSON(l *layout.Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fromLayout(l)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return nil
}
