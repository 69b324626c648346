package validator

import (
	"context"
	"strings"

	"github.com/harriteja/dict-go-sdk/pkg/store"
	"github.com/harriteja/dict-go-sdk/pkg/types"
)

// checkKey accepts a string naming an existing term, optionally
// constrained by a kind list.
func (v *Validator) checkKey(ctx context.Context, r ref, descriptor *types.Term, body map[string]interface{}, idx int) (bool, error) {
	value := r.value()
	text, ok := value.(string)
	if !ok {
		return v.setStatus(types.StatusBadKeyValue, descriptor.Key, value, idx, nil), nil
	}

	if text == "" {
		// The namespace field may reference the default namespace by
		// omission when the caller opted in.
		if v.opts.DefNamespace && descriptor.Key == v.cfg.Fields.Namespace {
			return true, nil
		}
		return v.setStatus(types.StatusEmptyKey, descriptor.Key, text, idx, nil), nil
	}
	if text == v.cfg.Dictionary.DefaultNamespaceKey {
		return v.setStatus(types.StatusNoRefDefaultNamespace, descriptor.Key, text, idx, nil), nil
	}
	if !store.IsValidKeyValue(text) {
		return v.setStatus(types.StatusBadKeyValue, descriptor.Key, text, idx, nil), nil
	}

	term, err := v.cache.GetTerm(ctx, text, v.lookup)
	if err != nil {
		v.setStatus(types.StatusStoreError, descriptor.Key, text, idx, nil)
		return false, err
	}
	if term == nil {
		return v.setStatus(types.StatusValueNotTerm, descriptor.Key, text, idx, nil), nil
	}

	kinds, declared := body[v.cfg.Fields.Kind]
	if !declared {
		return true, nil
	}
	options, ok := kinds.([]interface{})
	if !ok {
		return v.setStatus(types.StatusNotArrayDataKind, descriptor.Key, kinds, idx, nil), nil
	}
	if len(options) == 0 {
		return v.setStatus(types.StatusInvalidDataKindOption, descriptor.Key, kinds, idx, nil), nil
	}

	// The value passes when any option admits it; the last rejection
	// names the reported status.
	failure := types.StatusOK
	for _, raw := range options {
		option, ok := raw.(string)
		if !ok {
			return v.setStatus(types.StatusInvalidDataKindOption, descriptor.Key, raw, idx, nil), nil
		}
		switch option {
		case v.cfg.Fields.AnyTerm:
			return true, nil
		case v.cfg.Fields.AnyEnum:
			if term.IsEnumeration() {
				return true, nil
			}
			failure = types.StatusNotAnEnum
		case v.cfg.Fields.AnyDescriptor:
			if term.IsDescriptor() {
				return true, nil
			}
			failure = types.StatusNotADescriptor
		case v.cfg.Fields.AnyObject:
			if term.IsStructure() {
				return true, nil
			}
			failure = types.StatusNotAStructureDefinition
		default:
			if term.PathContains(option) {
				return true, nil
			}
			failure = types.StatusNotCorrectEnumType
		}
	}
	return v.setStatus(failure, descriptor.Key, text, idx, nil), nil
}

// checkHandle accepts a "collection/key" reference to an existing
// document in the store.
func (v *Validator) checkHandle(ctx context.Context, r ref, descriptor *types.Term, idx int) (bool, error) {
	value := r.value()
	text, ok := value.(string)
	if !ok {
		return v.setStatus(types.StatusBadHandleValue, descriptor.Key, value, idx, nil), nil
	}

	parts := strings.SplitN(text, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return v.setStatus(types.StatusBadHandleValue, descriptor.Key, text, idx, nil), nil
	}
	collection, key := parts[0], parts[1]

	if !store.IsValidCollectionName(collection) {
		return v.setStatus(types.StatusBadCollectionName, descriptor.Key, text, idx, nil), nil
	}
	exists, err := v.cache.CollectionExists(ctx, collection)
	if err != nil {
		v.setStatus(types.StatusStoreError, descriptor.Key, text, idx, nil)
		return false, err
	}
	if !exists {
		return v.setStatus(types.StatusUnknownCollection, descriptor.Key, text, idx, nil), nil
	}

	if !store.IsValidKeyValue(key) {
		return v.setStatus(types.StatusBadKeyValue, descriptor.Key, text, idx, nil), nil
	}
	exists, err = v.cache.DocumentExists(ctx, collection, key)
	if err != nil {
		v.setStatus(types.StatusStoreError, descriptor.Key, text, idx, nil)
		return false, err
	}
	if !exists {
		return v.setStatus(types.StatusUnknownDocument, descriptor.Key, text, idx, nil), nil
	}
	return true, nil
}

// checkEnum accepts a string identifying an enumeration element of one
// of the declared enumeration types. A value that is not a term key may
// still resolve through the code section: when it matches exactly one
// element's resolver field the canonical key is substituted in place.
func (v *Validator) checkEnum(ctx context.Context, r ref, descriptor *types.Term, body map[string]interface{}, idx int) (bool, error) {
	value := r.value()
	text, ok := value.(string)
	if !ok {
		return v.setStatus(types.StatusNotAString, descriptor.Key, value, idx, nil), nil
	}
	if !store.IsValidKeyValue(text) {
		return v.setStatus(types.StatusBadKeyValue, descriptor.Key, text, idx, nil), nil
	}

	options, ok := body[v.cfg.Fields.Kind].([]interface{})
	if !ok {
		return v.setStatus(types.StatusNotArrayDataKind, descriptor.Key, body[v.cfg.Fields.Kind], idx, nil), nil
	}
	if len(options) == 0 {
		return v.setStatus(types.StatusInvalidDataKindOption, descriptor.Key, options, idx, nil), nil
	}
	kinds := make([]string, 0, len(options))
	for _, raw := range options {
		option, ok := raw.(string)
		if !ok {
			return v.setStatus(types.StatusInvalidDataKindOption, descriptor.Key, raw, idx, nil), nil
		}
		kinds = append(kinds, option)
	}

	term, err := v.cache.GetTerm(ctx, text, v.lookup)
	if err != nil {
		v.setStatus(types.StatusStoreError, descriptor.Key, text, idx, nil)
		return false, err
	}

	if term != nil {
		if !term.IsEnumeration() {
			return v.setStatus(types.StatusNotAnEnum, descriptor.Key, text, idx, nil), nil
		}
		for _, kind := range kinds {
			if kind == v.cfg.Fields.AnyEnum || term.PathContains(kind) {
				return true, nil
			}
		}
		return v.setStatus(types.StatusNotCorrectEnumType, descriptor.Key, text, idx, nil), nil
	}

	if v.opts.Resolve {
		for _, kind := range kinds {
			if kind == v.cfg.Fields.AnyEnum {
				continue
			}
			ids, err := v.cache.QueryEnumIdentifierByCode(ctx, v.resolver, text, kind)
			if err != nil {
				v.setStatus(types.StatusStoreError, descriptor.Key, text, idx, nil)
				return false, err
			}
			// Only an unambiguous match may substitute the value.
			if len(ids) == 1 {
				r.assign(ids[0])
				v.logResolution(descriptor.Key, text, ids[0], idx)
				return true, nil
			}
		}
	}
	return v.setStatus(types.StatusValueNotTerm, descriptor.Key, text, idx, nil), nil
}
