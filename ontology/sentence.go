package ontology

import (
	"github.com/teranos/ANNX/errors"
	"github.com/teranos/ANNX/pack"
)

// Sentence is a sentence-level annotation. Its key-token list is an owned
// one-to-many reference: adding a token inserts it into the store (dedup
// aware), clearing the list deletes the referenced tokens from the store.
type Sentence struct {
	pack.AnnotationBase
	keyTokens []pack.EntryID
}

// NewSentence returns an uncommitted sentence draft over [begin, end).
func NewSentence(begin, end int) *Sentence {
	return &Sentence{AnnotationBase: pack.NewAnnotationBase(begin, end)}
}

func (s *Sentence) Kind() pack.Kind { return KindSentence }

func (s *Sentence) DedupKey() string {
	return pack.AnnotationKey(KindSentence, s.Span())
}

// KeyTokens returns the ordered key-token ids.
func (s *Sentence) KeyTokens() []pack.EntryID {
	out := make([]pack.EntryID, len(s.keyTokens))
	copy(out, s.keyTokens)
	return out
}

// NumKeyTokens returns the number of key tokens.
func (s *Sentence) NumKeyTokens() int { return len(s.keyTokens) }

// AddKeyToken inserts tok into p (deduplicating against existing entries)
// and appends the resulting identity to the key-token list. The insertion
// side-effect belongs to the field: the list never records an id that is
// not in the store.
func (s *Sentence) AddKeyToken(p *pack.Pack, tok *Token) error {
	if err := p.Owns(s); err != nil {
		return err
	}
	committed, err := p.AddOrGet(tok)
	if err != nil {
		return errors.Wrap(err, "adding key token")
	}
	s.keyTokens = append(s.keyTokens, committed.ID())
	return nil
}

// ClearKeyTokens deletes every referenced token from the store, then clears
// the list. Tokens still referenced elsewhere (e.g. by a link) make the
// clear fail part-way; ids are dropped from the list as their deletes go
// through, so removing the blocking relation and retrying completes the
// clear. Ids whose token is already gone (duplicates from a dedup merge)
// clear without error.
func (s *Sentence) ClearKeyTokens(p *pack.Pack) error {
	if err := p.Owns(s); err != nil {
		return err
	}
	for len(s.keyTokens) > 0 {
		id := s.keyTokens[0]
		if err := p.Delete(id); err != nil && !errors.IsNotFound(err) {
			return errors.Wrapf(err, "clearing key token %d", id)
		}
		s.keyTokens = s.keyTokens[1:]
	}
	return nil
}

// References exposes the key-token ids for referential verification.
func (s *Sentence) References() []pack.EntryID {
	return s.KeyTokens()
}

func (s *Sentence) State() map[string]any {
	state := s.BaseState()
	if len(s.keyTokens) > 0 {
		ids := make([]uint64, len(s.keyTokens))
		for i, id := range s.keyTokens {
			ids[i] = uint64(id)
		}
		state["key_tokens"] = ids
	}
	return state
}

func (s *Sentence) Restore(state map[string]any) error {
	rest, err := s.RestoreBase(state)
	if err != nil {
		return err
	}

	s.keyTokens = nil
	if raw, ok := rest["key_tokens"]; ok {
		ids, err := asIDList(raw)
		if err != nil {
			return err
		}
		s.keyTokens = ids
		delete(rest, "key_tokens")
	}

	for key := range rest {
		return errors.NewSerialization("unknown state key %q", key)
	}
	return nil
}

// asIDList coerces the decoded key_tokens value back into an id sequence.
// The in-memory export uses []uint64; YAML decodes it as []any of ints.
func asIDList(v any) ([]pack.EntryID, error) {
	switch ids := v.(type) {
	case []uint64:
		out := make([]pack.EntryID, len(ids))
		for i, id := range ids {
			out[i] = pack.EntryID(id)
		}
		return out, nil
	default:
		return pack.AsIDList(v)
	}
}
