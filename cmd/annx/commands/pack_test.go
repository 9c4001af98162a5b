package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/ANNX/ontology"
	"github.com/teranos/ANNX/pack"
)

func TestIsLinkKind(t *testing.T) {
	for _, kind := range []pack.Kind{
		ontology.KindPredicateLink, ontology.KindDependency,
	} {
		assert.True(t, isLinkKind(kind), "kind %s", kind)
	}

	for _, kind := range []pack.Kind{
		ontology.KindToken, ontology.KindSentence, ontology.KindDocument,
		ontology.KindEntityMention, ontology.KindPredicateMention,
		ontology.KindPredicateArgument,
	} {
		assert.False(t, isLinkKind(kind), "kind %s", kind)
	}

	assert.False(t, isLinkKind("Nope"))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short"))

	long := preview(sampleLongText())
	assert.Len(t, []rune(long), 61)
}

func sampleLongText() string {
	s := ""
	for i := 0; i < 10; i++ {
		s += "abcdefgh "
	}
	return s
}
