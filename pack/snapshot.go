package pack

import (
	"io"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/teranos/ANNX/errors"
)

// Snapshot is the serialized form of a pack: the document text plus every
// entry's exported state mapping, tagged with identity and kind. Field names
// and absent-vs-value semantics follow each variant's State contract, so a
// snapshot written by one build loads identically in another.
type Snapshot struct {
	Pack    string        `yaml:"pack"`
	Text    string        `yaml:"text"`
	Entries []EntryRecord `yaml:"entries"`
}

// EntryRecord serializes one entry. References inside State are plain id
// sequences resolved lazily: the whole snapshot is registered first, then
// verified, so a record may reference entries that appear after it.
type EntryRecord struct {
	ID    EntryID        `yaml:"id"`
	Kind  Kind           `yaml:"kind"`
	State map[string]any `yaml:"state,omitempty"`
}

// Factory constructs an empty draft of the given kind for snapshot loading.
// The ontology package provides the canonical implementation.
type Factory func(kind Kind) (Entry, error)

// Export captures the pack as a snapshot, entries in id order.
func (p *Pack) Export() *Snapshot {
	snap := &Snapshot{
		Pack:    p.id.String(),
		Text:    p.text,
		Entries: make([]EntryRecord, 0, len(p.entries)),
	}
	for id, e := range p.entries {
		snap.Entries = append(snap.Entries, EntryRecord{
			ID:    id,
			Kind:  e.Kind(),
			State: e.State(),
		})
	}
	sort.Slice(snap.Entries, func(i, j int) bool {
		return snap.Entries[i].ID < snap.Entries[j].ID
	})
	return snap
}

// Restore rebuilds a pack from a snapshot. Every record is restored and
// registered under its preserved identity before references are checked, so
// reference fields never require their targets to be loaded first. A
// snapshot that fails verification does not load as wrong data: the error
// surfaces and the partial pack is discarded by the caller.
func Restore(snap *Snapshot, factory Factory) (*Pack, error) {
	p := New(snap.Text)
	if snap.Pack != "" {
		id, err := uuid.Parse(snap.Pack)
		if err != nil {
			return nil, errors.NewSerialization("snapshot pack id %q is not a UUID", snap.Pack)
		}
		p.id = id
	}

	for _, rec := range snap.Entries {
		if rec.ID == NoEntry {
			return nil, errors.NewSerialization("snapshot entry with zero id")
		}
		e, err := factory(rec.Kind)
		if err != nil {
			return nil, errors.Wrapf(err, "snapshot entry %d", rec.ID)
		}
		if err := e.Restore(rec.State); err != nil {
			return nil, errors.Wrapf(err, "snapshot entry %d (%s)", rec.ID, rec.Kind)
		}
		if err := p.restore(e, rec.ID); err != nil {
			return nil, err
		}
	}

	if err := p.Verify(); err != nil {
		return nil, errors.Wrap(err, "snapshot failed referential verification")
	}
	return p, nil
}

// Encode writes the snapshot as YAML.
func (s *Snapshot) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(s); err != nil {
		return errors.NewSerialization("encoding snapshot: %v", err)
	}
	return nil
}

// DecodeSnapshot reads a YAML snapshot.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.NewSerialization("decoding snapshot: %v", err)
	}
	return &s, nil
}
