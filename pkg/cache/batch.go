package cache

import (
	"github.com/harriteja/dict-go-sdk/pkg/types"
)

// Batch is a per-validator overlay holding projected terms that are
// staged but not yet persisted to the store. It is owned by a single
// validator instance and is not safe for concurrent use.
type Batch struct {
	terms map[string]*types.Term
}

// NewBatch creates an empty batch overlay
func NewBatch() *Batch {
	return &Batch{
		terms: make(map[string]*types.Term),
	}
}

// Stage adds or replaces a staged term in the overlay
func (b *Batch) Stage(term *types.Term) {
	if term != nil && term.Key != "" {
		b.terms[term.Key] = term
	}
}

// Len returns the number of staged terms
func (b *Batch) Len() int {
	return len(b.terms)
}

func (b *Batch) lookup(id string) (*types.Term, bool) {
	term, ok := b.terms[id]
	return term, ok
}
