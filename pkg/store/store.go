// Package store defines the dictionary store boundary: the operations
// the term cache consumes and the pure grammar predicates shared with
// the validator. Implementations live in subpackages.
package store

import (
	"context"
	"regexp"
)

// Adapter abstracts the document+graph backend persisting the data
// dictionary. It performs no caching and no projection; any error it
// returns is fatal to the validation call in progress.
type Adapter interface {
	// FetchTerm returns the stored term document together with the
	// flattened list of type-term keys from all enumeration edges
	// leaving the term. A nil document signals an absent term, not an
	// error.
	FetchTerm(ctx context.Context, id string) (doc map[string]interface{}, edgePaths []string, err error)

	// QueryByCode returns the keys of terms whose code-section field
	// equals value and whose enumeration path contains enumType. Zero or
	// one result is normal; more than one indicates graph corruption and
	// is left to the caller to judge.
	QueryByCode(ctx context.Context, field string, value interface{}, enumType string) ([]string, error)

	// DocumentExists reports whether the collection holds a document
	// with the given key.
	DocumentExists(ctx context.Context, collection, key string) (bool, error)

	// CollectionExists reports whether the named collection exists.
	CollectionExists(ctx context.Context, name string) (bool, error)
}

var (
	// validCollectionName follows the document store collection grammar:
	// a letter followed by letters, digits, underscores or dashes.
	validCollectionName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_\-]*$`)

	// validKeyValue follows the document key grammar.
	validKeyValue = regexp.MustCompile(`^[a-zA-Z0-9_\-:.@()+,=;$!*'%]+$`)
)

const (
	maxCollectionNameLength = 256
	maxKeyValueLength       = 254
)

// IsValidCollectionName reports whether s is a well-formed collection
// name. Pure; performs no I/O.
func IsValidCollectionName(s string) bool {
	return len(s) > 0 && len(s) <= maxCollectionNameLength && validCollectionName.MatchString(s)
}

// IsValidKeyValue reports whether s is a well-formed document key.
// Pure; performs no I/O.
func IsValidKeyValue(s string) bool {
	return len(s) > 0 && len(s) <= maxKeyValueLength && validKeyValue.MatchString(s)
}
