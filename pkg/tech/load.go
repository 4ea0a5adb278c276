package tech

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/layoutwriter/pkg/errors"
)

// Load reads a technology from path. Files ending in .lyp are read as KLayout
// layer properties; everything else is read as TOML.
func Load(path string) (*Tech, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "tech file %s", path)
		}
		return nil, err
	}
	defer f.Close()

	var t *Tech
	if strings.EqualFold(filepath.Ext(path), ".lyp") {
		t, err = ReadLYP(f)
	} else {
		t, err = ReadTOML(f)
	}
	if err != nil {
		return nil, err
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

// Digest returns a stable content hash of the technology tables for use in
// cache keys.
func (t *Tech) Digest() string {
	h := sha256.New()
	fmt.Fprintf(h, "units %d %d\n", t.units.DBUPerUU, t.units.GridRes)
	for _, name := range sortedKeys(t.layers) {
		fmt.Fprintf(h, "layer %s %d\n", name, t.layers[name])
	}
	for _, name := range sortedKeys(t.purposes) {
		fmt.Fprintf(h, "purpose %s %d\n", name, t.purposes[name])
	}
	for _, v := range t.ViaDefs() {
		fmt.Fprintf(h, "via %s %s %s %s\n", v.Name, v.Layer1, v.Layer2, v.Cut)
	}
	return hex.EncodeToString(h.Sum(nil))
}
