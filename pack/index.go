package pack

import "sort"

// spanIndex keeps committed annotations ordered by (begin, end, insertion
// sequence). The ordering is load-bearing: containment queries feed child
// annotations to the model in document reading order, and the tie-break by
// insertion keeps repeated runs deterministic.
type spanIndex struct {
	items []indexItem
	seq   uint64
}

type indexItem struct {
	span Span
	seq  uint64
	id   EntryID
	kind Kind
}

func (ix *spanIndex) insert(id EntryID, kind Kind, span Span) {
	ix.seq++
	item := indexItem{span: span, seq: ix.seq, id: id, kind: kind}

	at := sort.Search(len(ix.items), func(i int) bool {
		return item.less(ix.items[i])
	})
	ix.items = append(ix.items, indexItem{})
	copy(ix.items[at+1:], ix.items[at:])
	ix.items[at] = item
}

func (ix *spanIndex) remove(id EntryID) {
	for i, item := range ix.items {
		if item.id == id {
			ix.items = append(ix.items[:i], ix.items[i+1:]...)
			return
		}
	}
}

// query returns ids of annotations of the given kind fully contained in
// container. The result is a fresh slice; later inserts never invalidate
// previously returned results.
func (ix *spanIndex) query(container Span, kind Kind) []EntryID {
	// Lower bound: first item with begin >= container.Begin.
	from := sort.Search(len(ix.items), func(i int) bool {
		return ix.items[i].span.Begin >= container.Begin
	})

	var out []EntryID
	for i := from; i < len(ix.items); i++ {
		item := ix.items[i]
		if item.span.Begin > container.End {
			break
		}
		if item.kind == kind && container.Contains(item.span) {
			out = append(out, item.id)
		}
	}
	return out
}

func (a indexItem) less(b indexItem) bool {
	if a.span.Begin != b.span.Begin {
		return a.span.Begin < b.span.Begin
	}
	if a.span.End != b.span.End {
		return a.span.End < b.span.End
	}
	return a.seq < b.seq
}
