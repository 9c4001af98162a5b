package ontology

import (
	"github.com/teranos/ANNX/attrs"
	"github.com/teranos/ANNX/pack"
)

// Token is a word-level annotation. All scalar fields start absent and stay
// absent until set through their mutator.
type Token struct {
	pack.AnnotationBase
	fields tokenFields
}

type tokenFields struct {
	Lemma    *string  `attr:"lemma"`
	IsVerb   *bool    `attr:"is_verb"`
	NumChars *int     `attr:"num_chars"`
	Score    *float64 `attr:"score"`
}

// NewToken returns an uncommitted token draft over [begin, end).
func NewToken(begin, end int) *Token {
	return &Token{AnnotationBase: pack.NewAnnotationBase(begin, end)}
}

func (t *Token) Kind() pack.Kind { return KindToken }

func (t *Token) DedupKey() string {
	return pack.AnnotationKey(KindToken, t.Span())
}

// Lemma returns the lemma and whether it is set.
func (t *Token) Lemma() (string, bool) {
	if t.fields.Lemma == nil {
		return "", false
	}
	return *t.fields.Lemma, true
}

// SetLemma sets the lemma.
func (t *Token) SetLemma(lemma string) {
	t.fields.Lemma = &lemma
}

// IsVerb returns the verb flag and whether it is set.
func (t *Token) IsVerb() (bool, bool) {
	if t.fields.IsVerb == nil {
		return false, false
	}
	return *t.fields.IsVerb, true
}

// SetIsVerb sets the verb flag.
func (t *Token) SetIsVerb(isVerb bool) {
	t.fields.IsVerb = &isVerb
}

// NumChars returns the character count and whether it is set.
func (t *Token) NumChars() (int, bool) {
	if t.fields.NumChars == nil {
		return 0, false
	}
	return *t.fields.NumChars, true
}

// SetNumChars sets the character count.
func (t *Token) SetNumChars(n int) {
	t.fields.NumChars = &n
}

// Score returns the score and whether it is set.
func (t *Token) Score() (float64, bool) {
	if t.fields.Score == nil {
		return 0, false
	}
	return *t.fields.Score, true
}

// SetScore sets the score.
func (t *Token) SetScore(score float64) {
	t.fields.Score = &score
}

func (t *Token) State() map[string]any {
	state := t.BaseState()
	for k, v := range attrs.From(&t.fields) {
		state[k] = v
	}
	return state
}

func (t *Token) Restore(state map[string]any) error {
	rest, err := t.RestoreBase(state)
	if err != nil {
		return err
	}
	t.fields = tokenFields{}
	return attrs.ScanStrict(rest, &t.fields)
}
