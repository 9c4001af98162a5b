// Package pack implements the per-document annotation store: entry identity,
// dedup-aware storage, the span index, and snapshot (de)serialization.
//
// A Pack owns every entry created in it. Entries hold only the owning pack's
// UUID as a weak back-reference; all mutations that touch store state take
// the owning *Pack explicitly, so there is no hidden global pack context.
//
// A Pack is not safe for concurrent use. One pipeline instance processes one
// pack at a time; independent packs may be processed concurrently because
// they share no mutable state.
package pack

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/teranos/ANNX/errors"
)

// EntryID identifies an entry within its pack. IDs start at 1 and are never
// reused within a pack's lifetime.
type EntryID uint64

// NoEntry is the zero EntryID, never assigned to a committed entry.
const NoEntry EntryID = 0

// Kind names a concrete entry variant (e.g. "Token", "PredicateLink").
// The set of kinds is closed per ontology; dispatch is by tag, not by
// open-ended inheritance.
type Kind string

// Span is a half-open [Begin, End) range of byte offsets into the pack text.
type Span struct {
	Begin int `yaml:"begin"`
	End   int `yaml:"end"`
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return other.Begin >= s.Begin && other.End <= s.End
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.End - s.Begin
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Begin, s.End)
}

// Entry is the common surface of every annotation and link variant.
// Concrete variants live in the ontology package and embed AnnotationBase
// or LinkBase for identity plumbing.
type Entry interface {
	// ID returns the pack-unique identity, NoEntry for uncommitted drafts
	ID() EntryID
	// PackID returns the owning pack's UUID, uuid.Nil for drafts
	PackID() uuid.UUID
	// Kind returns the closed variant tag
	Kind() Kind
	// DedupKey returns the structural identity used by AddOrGet. Fields
	// that participate in the key must be set before the entry is committed.
	DedupKey() string
	// State exports all variant fields as a flat mapping. Absent fields
	// are omitted, reference lists appear as ordered id sequences.
	State() map[string]any
	// Restore is the inverse of State. Unknown keys fail with
	// errors.ErrSerialization.
	Restore(state map[string]any) error
}

// Annotation is an Entry that covers a span of the pack text.
type Annotation interface {
	Entry
	Span() Span
}

// Link is an Entry that relates two other entries in the same pack.
type Link interface {
	Entry
	Parent() EntryID
	Child() EntryID
}

// Referencer is implemented by variants carrying one-to-many reference
// lists. Verify walks it for referential consistency checks.
type Referencer interface {
	References() []EntryID
}

// binder is the commit hook Pack uses to assign identity. Only base types
// in this package implement it, which keeps entry construction closed.
type binder interface {
	bind(packID uuid.UUID, id EntryID)
	bound() bool
}

// AnnotationBase carries identity and span storage for annotation variants.
// Construct drafts with NewAnnotationBase and commit them via Pack.Add or
// Pack.AddOrGet.
type AnnotationBase struct {
	id     EntryID
	packID uuid.UUID
	span   Span
}

// NewAnnotationBase returns an uncommitted annotation base over [begin, end).
func NewAnnotationBase(begin, end int) AnnotationBase {
	return AnnotationBase{span: Span{Begin: begin, End: end}}
}

// ID returns the committed identity, NoEntry for drafts.
func (b *AnnotationBase) ID() EntryID { return b.id }

// PackID returns the owning pack's UUID, uuid.Nil for drafts.
func (b *AnnotationBase) PackID() uuid.UUID { return b.packID }

// Span returns the annotated [begin, end) range.
func (b *AnnotationBase) Span() Span { return b.span }

func (b *AnnotationBase) bind(packID uuid.UUID, id EntryID) {
	b.packID = packID
	b.id = id
}

func (b *AnnotationBase) bound() bool { return b.id != NoEntry }

// BaseState returns the span portion of the state mapping.
func (b *AnnotationBase) BaseState() map[string]any {
	return map[string]any{
		"begin": b.span.Begin,
		"end":   b.span.End,
	}
}

// RestoreBase consumes the span keys from state and returns the remaining
// variant-specific keys for the caller to scan.
func (b *AnnotationBase) RestoreBase(state map[string]any) (map[string]any, error) {
	rest := copyState(state)

	begin, ok := takeInt(rest, "begin")
	if !ok {
		return nil, errors.NewSerialization("annotation state missing %q", "begin")
	}
	end, ok := takeInt(rest, "end")
	if !ok {
		return nil, errors.NewSerialization("annotation state missing %q", "end")
	}

	b.span = Span{Begin: begin, End: end}
	return rest, nil
}

// LinkBase carries identity and parent/child references for link variants.
type LinkBase struct {
	id     EntryID
	packID uuid.UUID
	parent EntryID
	child  EntryID
}

// NewLinkBase returns an uncommitted link base between two committed entries.
func NewLinkBase(parent, child EntryID) LinkBase {
	return LinkBase{parent: parent, child: child}
}

// ID returns the committed identity, NoEntry for drafts.
func (b *LinkBase) ID() EntryID { return b.id }

// PackID returns the owning pack's UUID, uuid.Nil for drafts.
func (b *LinkBase) PackID() uuid.UUID { return b.packID }

// Parent returns the parent entry id.
func (b *LinkBase) Parent() EntryID { return b.parent }

// Child returns the child entry id.
func (b *LinkBase) Child() EntryID { return b.child }

func (b *LinkBase) bind(packID uuid.UUID, id EntryID) {
	b.packID = packID
	b.id = id
}

func (b *LinkBase) bound() bool { return b.id != NoEntry }

// BaseState returns the parent/child portion of the state mapping.
func (b *LinkBase) BaseState() map[string]any {
	return map[string]any{
		"parent": uint64(b.parent),
		"child":  uint64(b.child),
	}
}

// RestoreBase consumes the parent/child keys from state and returns the
// remaining variant-specific keys for the caller to scan.
func (b *LinkBase) RestoreBase(state map[string]any) (map[string]any, error) {
	rest := copyState(state)

	parent, ok := takeInt(rest, "parent")
	if !ok {
		return nil, errors.NewSerialization("link state missing %q", "parent")
	}
	child, ok := takeInt(rest, "child")
	if !ok {
		return nil, errors.NewSerialization("link state missing %q", "child")
	}

	b.parent = EntryID(parent)
	b.child = EntryID(child)
	return rest, nil
}

// AnnotationKey builds a dedup key from a kind, a span, and any identifying
// variant fields. Two drafts with equal keys are structurally equal.
func AnnotationKey(kind Kind, span Span, identifying ...string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s|%d|%d", kind, span.Begin, span.End)
	for _, f := range identifying {
		sb.WriteByte('|')
		sb.WriteString(f)
	}
	return sb.String()
}

// LinkKey builds a dedup key from a kind and the parent/child identities.
func LinkKey(kind Kind, parent, child EntryID) string {
	return fmt.Sprintf("%s|%d->%d", kind, parent, child)
}

// AsIDList coerces a decoded state value into an ordered EntryID sequence.
// Accepts the in-memory representation ([]EntryID) and the YAML/JSON decoded
// forms ([]any of integers).
func AsIDList(v any) ([]EntryID, error) {
	switch ids := v.(type) {
	case nil:
		return nil, nil
	case []EntryID:
		out := make([]EntryID, len(ids))
		copy(out, ids)
		return out, nil
	case []any:
		out := make([]EntryID, 0, len(ids))
		for _, raw := range ids {
			n, ok := asInt(raw)
			if !ok || n < 0 {
				return nil, errors.NewSerialization("reference list element %v is not an entry id", raw)
			}
			out = append(out, EntryID(n))
		}
		return out, nil
	default:
		return nil, errors.NewSerialization("reference list has unexpected type %T", v)
	}
}

func copyState(state map[string]any) map[string]any {
	rest := make(map[string]any, len(state))
	for k, v := range state {
		rest[k] = v
	}
	return rest
}

// takeInt pops key from state, coercing decoded numeric forms.
func takeInt(state map[string]any, key string) (int, bool) {
	v, ok := state[key]
	if !ok {
		return 0, false
	}
	delete(state, key)
	return asInt(v)
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	case EntryID:
		return int(n), true
	default:
		return 0, false
	}
}
