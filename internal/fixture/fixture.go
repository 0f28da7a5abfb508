// Package fixture reads record sets from JSON files and ships a small sample
// used by tests, the CLI and the seed command.
package fixture

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mmynk/personas/internal/models"
	"github.com/mmynk/personas/internal/persona"
	"github.com/mmynk/personas/internal/storage"
)

//go:embed sample.json
var sampleJSON []byte

// File is the on-disk layout of a fixture.
type File struct {
	Users        []models.User        `json:"users"`
	Groups       []models.Group       `json:"groups"`
	Events       []models.Event       `json:"events"`
	Transactions []models.Transaction `json:"transactions"`
}

// Records converts the file into analysis input.
func (f *File) Records() persona.Records {
	return persona.Records{
		Users:        f.Users,
		Groups:       f.Groups,
		Events:       f.Events,
		Transactions: f.Transactions,
	}
}

// Group returns the group with the given ID.
func (f *File) Group(id string) (models.Group, bool) {
	for _, g := range f.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return models.Group{}, false
}

// Read decodes a fixture.
func Read(r io.Reader) (*File, error) {
	var f File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return &f, nil
}

// Load reads a fixture from path. An empty path returns the sample.
func Load(path string) (*File, error) {
	if path == "" {
		return Sample(), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture: %w", err)
	}
	defer fh.Close()
	return Read(fh)
}

// Sample returns a fresh copy of the bundled sample: three users in the
// four-member group "g1" with seven events between Jan 5 and Feb 6, 2026.
func Sample() *File {
	f, err := Read(bytes.NewReader(sampleJSON))
	if err != nil {
		panic(err)
	}
	return f
}

// Seed writes every record of the file into s, groups before the events and
// transactions that reference them.
func (f *File) Seed(ctx context.Context, s storage.Store) error {
	for i := range f.Users {
		if err := s.CreateUser(ctx, &f.Users[i]); err != nil {
			return fmt.Errorf("user %s: %w", f.Users[i].ID, err)
		}
	}
	for i := range f.Groups {
		if err := s.CreateGroup(ctx, &f.Groups[i]); err != nil {
			return fmt.Errorf("group %s: %w", f.Groups[i].ID, err)
		}
	}
	for i := range f.Events {
		if err := s.CreateEvent(ctx, &f.Events[i]); err != nil {
			return fmt.Errorf("event %s: %w", f.Events[i].ID, err)
		}
	}
	for i := range f.Transactions {
		if err := s.CreateTransaction(ctx, &f.Transactions[i]); err != nil {
			return fmt.Errorf("transaction %s: %w", f.Transactions[i].ID, err)
		}
	}
	return nil
}
