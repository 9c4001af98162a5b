package pack

import (
	"github.com/google/uuid"
	"github.com/teranos/ANNX/errors"
	"github.com/teranos/ANNX/logger"
)

// Pack aggregates one document's text, its entry store, and its span index.
// Entries never outlive their pack and never move between packs.
type Pack struct {
	id     uuid.UUID
	text   string
	nextID EntryID

	entries map[EntryID]Entry
	index   spanIndex
	dedup   map[string]EntryID

	// linkRefs maps a target entry id to the set of committed links
	// pointing at it. Deleting a still-referenced target is refused so
	// links can never dangle.
	linkRefs map[EntryID]map[EntryID]struct{}
}

// New creates an empty pack over the given document text.
func New(text string) *Pack {
	return &Pack{
		id:       uuid.New(),
		text:     text,
		entries:  make(map[EntryID]Entry),
		dedup:    make(map[string]EntryID),
		linkRefs: make(map[EntryID]map[EntryID]struct{}),
	}
}

// ID returns the pack's UUID.
func (p *Pack) ID() uuid.UUID { return p.id }

// Text returns the document text.
func (p *Pack) Text() string { return p.text }

// Len returns the number of committed entries.
func (p *Pack) Len() int { return len(p.entries) }

// TextOf returns the document text covered by an annotation span.
func (p *Pack) TextOf(a Annotation) string {
	s := a.Span()
	return p.text[s.Begin:s.End]
}

// Add commits a draft entry: validates it, assigns a fresh identity,
// registers it in the store, and (for annotations) inserts it into the span
// index. The draft must not already be committed.
func (p *Pack) Add(e Entry) error {
	_, err := p.commit(e)
	return err
}

// AddOrGet is the dedup primitive. If a committed entry with the draft's
// dedup key exists, that entry is returned and the draft is discarded.
// Otherwise the draft is committed and returned. Re-inserting structurally
// equal drafts is idempotent: the same identity comes back every time.
func (p *Pack) AddOrGet(e Entry) (Entry, error) {
	if e.ID() != NoEntry {
		// Already committed; only accept entries of this pack.
		if e.PackID() != p.id {
			return nil, errors.Wrapf(errors.ErrWrongPack, "entry %d", e.ID())
		}
		return e, nil
	}

	if existing, ok := p.dedup[e.DedupKey()]; ok {
		return p.entries[existing], nil
	}

	return p.commit(e)
}

// Get returns the entry with the given identity.
func (p *Pack) Get(id EntryID) (Entry, error) {
	e, ok := p.entries[id]
	if !ok {
		return nil, errors.NewNotFound("entry %d in pack %s", id, p.id)
	}
	return e, nil
}

// Delete removes an entry from the store and, for annotations, from the
// span index. Deletion is refused while a committed link still references
// the entry; the owning relation must remove the link first. Back-references
// held in reference-list fields are the caller's responsibility.
func (p *Pack) Delete(id EntryID) error {
	e, ok := p.entries[id]
	if !ok {
		return errors.NewNotFound("entry %d in pack %s", id, p.id)
	}
	if refs := p.linkRefs[id]; len(refs) > 0 {
		return errors.NewDanglingReference(
			"entry %d is still referenced by %d link(s)", id, len(refs))
	}

	delete(p.entries, id)
	if p.dedup[e.DedupKey()] == id {
		delete(p.dedup, e.DedupKey())
	}
	if _, isAnnotation := e.(Annotation); isAnnotation {
		p.index.remove(id)
	}
	if l, isLink := e.(Link); isLink {
		p.dropLinkRef(l.Parent(), id)
		p.dropLinkRef(l.Child(), id)
	}
	return nil
}

// Query returns the ids of all committed annotations of the given kind whose
// span is fully contained in container, ordered by (begin, end) ascending
// with ties broken by insertion order. The returned slice is a snapshot:
// later inserts do not invalidate it.
func (p *Pack) Query(container Span, kind Kind) []EntryID {
	return p.index.query(container, kind)
}

// Annotations returns all committed annotations of the given kind over the
// whole document, in span order.
func (p *Pack) Annotations(kind Kind) []EntryID {
	return p.index.query(Span{Begin: 0, End: len(p.text)}, kind)
}

// Verify checks referential consistency: every link endpoint and every
// reference-list element must resolve to a committed entry.
func (p *Pack) Verify() error {
	for id, e := range p.entries {
		if l, ok := e.(Link); ok {
			if _, ok := p.entries[l.Parent()]; !ok {
				return errors.NewDanglingReference(
					"link %d parent %d not in pack", id, l.Parent())
			}
			if _, ok := p.entries[l.Child()]; !ok {
				return errors.NewDanglingReference(
					"link %d child %d not in pack", id, l.Child())
			}
		}
		if r, ok := e.(Referencer); ok {
			for _, ref := range r.References() {
				if _, ok := p.entries[ref]; !ok {
					return errors.NewDanglingReference(
						"entry %d references %d which is not in pack", id, ref)
				}
			}
		}
	}
	return nil
}

// Owns reports an error if a committed entry belongs to a different pack.
// Drafts pass: they acquire ownership when committed.
func (p *Pack) Owns(e Entry) error {
	if e.ID() != NoEntry && e.PackID() != p.id {
		return errors.Wrapf(errors.ErrWrongPack,
			"entry %d belongs to pack %s, not %s", e.ID(), e.PackID(), p.id)
	}
	return nil
}

func (p *Pack) commit(e Entry) (Entry, error) {
	b, ok := e.(binder)
	if !ok {
		return nil, errors.AssertionFailedf("entry kind %s does not embed a pack base", e.Kind())
	}
	if b.bound() {
		return nil, errors.Wrapf(errors.ErrWrongPack, "entry %d is already committed", e.ID())
	}

	if a, isAnnotation := e.(Annotation); isAnnotation {
		s := a.Span()
		if s.Begin < 0 || s.Begin > s.End || s.End > len(p.text) {
			return nil, errors.Wrapf(errors.ErrInvalidSpan,
				"span %s outside text of length %d", s, len(p.text))
		}
	}
	if l, isLink := e.(Link); isLink {
		if _, ok := p.entries[l.Parent()]; !ok {
			return nil, errors.NewDanglingReference("link parent %d not in pack", l.Parent())
		}
		if _, ok := p.entries[l.Child()]; !ok {
			return nil, errors.NewDanglingReference("link child %d not in pack", l.Child())
		}
	}

	p.nextID++
	id := p.nextID
	b.bind(p.id, id)
	p.entries[id] = e

	// First committer of a key stays canonical.
	key := e.DedupKey()
	if _, ok := p.dedup[key]; !ok {
		p.dedup[key] = id
	}

	if a, isAnnotation := e.(Annotation); isAnnotation {
		p.index.insert(id, e.Kind(), a.Span())
	}
	if l, isLink := e.(Link); isLink {
		p.addLinkRef(l.Parent(), id)
		p.addLinkRef(l.Child(), id)
	}

	logger.Logger.Debugw("entry committed",
		logger.FieldPackID, p.id.String(),
		logger.FieldEntryID, uint64(id),
		logger.FieldKind, string(e.Kind()))

	return e, nil
}

// restore re-registers an entry under a preserved identity during snapshot
// load. Reference validation is deferred to Verify because reference-list
// targets may carry higher ids than their owner.
func (p *Pack) restore(e Entry, id EntryID) error {
	b, ok := e.(binder)
	if !ok {
		return errors.AssertionFailedf("entry kind %s does not embed a pack base", e.Kind())
	}
	if _, exists := p.entries[id]; exists {
		return errors.NewSerialization("duplicate entry id %d in snapshot", id)
	}
	if a, isAnnotation := e.(Annotation); isAnnotation {
		s := a.Span()
		if s.Begin < 0 || s.Begin > s.End || s.End > len(p.text) {
			return errors.NewSerialization(
				"entry %d span %s outside text of length %d", id, s, len(p.text))
		}
	}

	b.bind(p.id, id)
	p.entries[id] = e
	if id > p.nextID {
		p.nextID = id
	}

	key := e.DedupKey()
	if _, ok := p.dedup[key]; !ok {
		p.dedup[key] = id
	}
	if a, isAnnotation := e.(Annotation); isAnnotation {
		p.index.insert(id, e.Kind(), a.Span())
	}
	if l, isLink := e.(Link); isLink {
		p.addLinkRef(l.Parent(), id)
		p.addLinkRef(l.Child(), id)
	}
	return nil
}

func (p *Pack) addLinkRef(target, link EntryID) {
	set, ok := p.linkRefs[target]
	if !ok {
		set = make(map[EntryID]struct{})
		p.linkRefs[target] = set
	}
	set[link] = struct{}{}
}

func (p *Pack) dropLinkRef(target, link EntryID) {
	if set, ok := p.linkRefs[target]; ok {
		delete(set, link)
		if len(set) == 0 {
			delete(p.linkRefs, target)
		}
	}
}
