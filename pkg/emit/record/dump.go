package record

import (
	"encoding/json"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/layoutwriter/pkg/errors"
)

type dump struct {
	Designs []*Design `json:"designs" msgpack:"designs"`
}

// WriteJSON writes all recorded designs as indented JSON.
func (b *Backend) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dump{Designs: b.Designs()}); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return nil
}

// WriteMsgpack writes all recorded designs as MessagePack.
func (b *Backend) WriteMsgpack(w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	if err := enc.Encode(dump{Designs: b.Designs()}); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode msgpack")
	}
	return nil
}

// ReadJSON decodes designs written by [Backend.WriteJSON].
func ReadJSON(r io.Reader) ([]*Design, error) {
	var d dump
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return d.Designs, nil
}

// ReadMsgpack decodes designs written by [Backend.WriteMsgpack].
func ReadMsgpack(r io.Reader) ([]*Design, error) {
	var d dump
	if err := msgpack.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode msgpack")
	}
	return d.Designs, nil
}
