package ontology

import (
	"github.com/teranos/ANNX/attrs"
	"github.com/teranos/ANNX/pack"
)

// Dependency connects a head token (parent) to a dependent token (child)
// with a relation label.
type Dependency struct {
	pack.LinkBase
	fields dependencyFields
}

type dependencyFields struct {
	RelType *string `attr:"rel_type"`
}

// NewDependency returns an uncommitted dependency draft between two
// committed entries.
func NewDependency(parent, child pack.EntryID) *Dependency {
	return &Dependency{LinkBase: pack.NewLinkBase(parent, child)}
}

func (d *Dependency) Kind() pack.Kind { return KindDependency }

func (d *Dependency) DedupKey() string {
	return pack.LinkKey(KindDependency, d.Parent(), d.Child())
}

// RelType returns the relation label and whether it is set.
func (d *Dependency) RelType() (string, bool) {
	if d.fields.RelType == nil {
		return "", false
	}
	return *d.fields.RelType, true
}

// SetRelType sets the relation label.
func (d *Dependency) SetRelType(relType string) {
	d.fields.RelType = &relType
}

func (d *Dependency) State() map[string]any {
	state := d.BaseState()
	for k, v := range attrs.From(&d.fields) {
		state[k] = v
	}
	return state
}

func (d *Dependency) Restore(state map[string]any) error {
	rest, err := d.RestoreBase(state)
	if err != nil {
		return err
	}
	d.fields = dependencyFields{}
	return attrs.ScanStrict(rest, &d.fields)
}
