package captable

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Decode reads a record in its json form.
//
// Dates and enum tags are parsed while decoding, so a malformed date or an unknown
// kind fails here rather than in a later computation. Unknown fields are rejected.
func Decode(r io.Reader) (*Record, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	rec := new(Record)
	if err := dec.Decode(rec); err != nil {
		return nil, fmt.Errorf("could not decode record: %w", err)
	}
	return rec, nil
}

// Encode writes the record as indented json.
func Encode(w io.Writer, rec *Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("could not encode record: %w", err)
	}
	return nil
}

// Load opens and decodes the record file at path.
// A missing file is reported with an error wrapping fs.ErrNotExist.
func Load(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open record file %q: %w", path, err)
	}
	defer f.Close()

	rec, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not load %q: %w", path, err)
	}
	return rec, nil
}

// Save writes the record to path. The file is replaced atomically: the record is
// first written to a temporary file in the same directory, then renamed.
func Save(path string, rec *Record) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory for record %q: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary file for %q: %w", path, err)
	}
	// no-op once renamed.
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, rec); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing record file %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing record file %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not replace record file %q: %w", path, err)
	}
	log.Printf("saved record to %s", path)
	return nil
}
