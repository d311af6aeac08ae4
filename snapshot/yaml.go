/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-openapi/strfmt"
	"gopkg.in/yaml.v3"

	"github.com/suparena/entityregistry/errors"
	"github.com/suparena/entityregistry/storagemodels"
)

type document struct {
	Registry string           `yaml:"registry"`
	Entities []entityDocument `yaml:"entities"`
}

type entityDocument struct {
	Seq        int    `yaml:"seq"`
	ID         uint64 `yaml:"id,omitempty"`
	Name       string `yaml:"name"`
	Designated bool   `yaml:"designated,omitempty"`
	CreatedAt  string `yaml:"createdAt,omitempty"`
	UpdatedAt  string `yaml:"updatedAt,omitempty"`
}

// Encode writes the snapshot as YAML. Timestamps are RFC3339 with millisecond precision.
func Encode(w io.Writer, snap storagemodels.Snapshot) error {
	doc := document{
		Registry: snap.RegistryID,
		Entities: make([]entityDocument, 0, len(snap.Entities)),
	}
	for _, rec := range snap.Entities {
		doc.Entities = append(doc.Entities, entityDocument{
			Seq:        rec.Seq,
			ID:         rec.ID,
			Name:       rec.Name,
			Designated: rec.Designated,
			CreatedAt:  formatTime(rec.CreatedAt),
			UpdatedAt:  formatTime(rec.UpdatedAt),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return enc.Close()
}

// Decode reads a YAML snapshot. Unknown fields and malformed timestamps are rejected.
func Decode(r io.Reader) (storagemodels.Snapshot, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return storagemodels.Snapshot{}, fmt.Errorf("parse yaml: %w", err)
	}

	snap := storagemodels.Snapshot{
		RegistryID: doc.Registry,
		Entities:   make([]storagemodels.EntityRecord, 0, len(doc.Entities)),
	}
	for _, ed := range doc.Entities {
		rec := storagemodels.EntityRecord{
			RegistryID: doc.Registry,
			Seq:        ed.Seq,
			ID:         ed.ID,
			Name:       ed.Name,
			Designated: ed.Designated,
		}
		var err error
		if rec.CreatedAt, err = parseTime("createdAt", ed.CreatedAt); err != nil {
			return storagemodels.Snapshot{}, err
		}
		if rec.UpdatedAt, err = parseTime("updatedAt", ed.UpdatedAt); err != nil {
			return storagemodels.Snapshot{}, err
		}
		snap.Entities = append(snap.Entities, rec)
	}
	return snap, nil
}

// ReadFile decodes the YAML snapshot stored at path.
func ReadFile(path string) (storagemodels.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return storagemodels.Snapshot{}, fmt.Errorf("read snapshot file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile encodes the snapshot as YAML to path, replacing any existing file.
func WriteFile(path string, snap storagemodels.Snapshot) error {
	var buf bytes.Buffer
	if err := Encode(&buf, snap); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strfmt.DateTime(t.UTC()).String()
}

func parseTime(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	dt, err := strfmt.ParseDateTime(s)
	if err != nil {
		return time.Time{}, errors.NewValidationError(field, fmt.Sprintf("%q is not a date-time", s))
	}
	return time.Time(dt).UTC(), nil
}
