package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stageIndex() *LookupIndex {
	return &LookupIndex{
		Name:    "stage",
		Unknown: 0,
		Mapping: map[string]int{
			"stage-3": 1035,
			"stage-4": 1036,
		},
	}
}

func TestResolverDirectHit(t *testing.T) {
	r := NewConceptResolver(stageIndex(), nil)
	assert.Equal(t, 1035, r.Lookup("Stage-3"))
}

func TestResolverCorrectionPass(t *testing.T) {
	r := NewConceptResolver(stageIndex(), nil, MakeStage)

	// "Stage-III" misses directly, the stage correction folds it
	assert.Equal(t, 1035, r.Lookup("Stage-III"))

	id, ok := r.LookupOK("Stage-III")
	assert.True(t, ok)
	assert.Equal(t, 1035, id)
}

func TestResolverCorrectionsInOrder(t *testing.T) {
	ix := &LookupIndex{Unknown: 0, Mapping: map[string]int{"aa": 1, "ab": 2}}
	first := func(string) string { return "aa" }
	second := func(string) string { return "ab" }

	r := NewConceptResolver(ix, nil, first, second)
	// earlier corrections win
	assert.Equal(t, 1, r.Lookup("zz"))
}

func TestResolverLookupExactSkipsCorrections(t *testing.T) {
	r := NewConceptResolver(stageIndex(), nil, MakeStage)

	assert.Equal(t, 0, r.LookupExact("Stage-III"))
	assert.Equal(t, 1036, r.LookupExact(" STAGE-4 "))
}

func TestResolverEmptyTerm(t *testing.T) {
	ix := stageIndex()
	ix.Unknown = 42
	r := NewConceptResolver(ix, nil)

	id, ok := r.LookupOK("")
	assert.False(t, ok)
	assert.Equal(t, 42, id)
	assert.Equal(t, 42, r.LookupExact(""))
}

func TestResolverContains(t *testing.T) {
	r := NewConceptResolver(stageIndex(), nil, MakeStage)
	assert.True(t, r.ContainsTerm("stage-iv"))
	assert.False(t, r.ContainsTerm("stage-x"))
	assert.True(t, r.ContainsConcept(1036))
	assert.False(t, r.ContainsConcept(9))
}
