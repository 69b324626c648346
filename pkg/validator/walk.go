package validator

import (
	"context"
	"sort"

	"github.com/harriteja/dict-go-sdk/pkg/types"
)

// walk interprets a data section against the value r addresses. The
// section must declare exactly one dimension among scalar, array, set
// and dict; containers recurse depth-first, scalars dispatch into the
// type primitives. Cancellation is honored at every dimension boundary.
func (v *Validator) walk(ctx context.Context, r ref, descriptor *types.Term, section map[string]interface{}, idx int) (bool, error) {
	if ctx.Err() != nil {
		v.setStatus(types.StatusCancelled, descriptor.Key, nil, idx, nil)
		return false, nil
	}

	tags := v.cfg.Fields
	var dimension string
	found := 0
	for _, tag := range []string{tags.Scalar, tags.Array, tags.Set, tags.Dict} {
		if _, ok := section[tag]; ok {
			dimension = tag
			found++
		}
	}
	if found != 1 {
		return v.setStatus(types.StatusExpectingDataDimension, descriptor.Key, section, idx, nil), nil
	}

	body, ok := section[dimension].(map[string]interface{})
	if !ok {
		return v.setStatus(types.StatusExpectingDataDimension, descriptor.Key, section, idx, nil), nil
	}

	switch dimension {
	case tags.Scalar:
		return v.walkScalar(ctx, r, descriptor, body, idx)
	case tags.Array:
		return v.walkList(ctx, r, descriptor, body, idx, false)
	case tags.Set:
		return v.walkList(ctx, r, descriptor, body, idx, true)
	default:
		return v.walkDict(ctx, r, descriptor, body, idx)
	}
}

// walkScalar checks the addressed value as a leaf: reject containers,
// then dispatch on the declared data type.
func (v *Validator) walkScalar(ctx context.Context, r ref, descriptor *types.Term, body map[string]interface{}, idx int) (bool, error) {
	value := r.value()
	if _, isList := value.([]interface{}); isList {
		return v.setStatus(types.StatusNotAScalar, descriptor.Key, value, idx, nil), nil
	}

	typeTag, declared := body[v.cfg.Fields.Type].(string)
	if !declared {
		if v.opts.ExpectType {
			return v.setStatus(types.StatusMissingScalarType, descriptor.Key, value, idx, nil), nil
		}
		return true, nil
	}

	switch typeTag {
	case v.cfg.Types.Boolean:
		return v.checkBoolean(r, descriptor, idx), nil
	case v.cfg.Types.Integer:
		return v.checkInteger(r, descriptor, body, idx), nil
	case v.cfg.Types.Number:
		return v.checkNumber(r, descriptor, body, idx), nil
	case v.cfg.Types.Timestamp:
		return v.checkTimestamp(r, descriptor, body, idx), nil
	case v.cfg.Types.String:
		return v.checkString(r, descriptor, body, idx), nil
	case v.cfg.Types.Key:
		return v.checkKey(ctx, r, descriptor, body, idx)
	case v.cfg.Types.Handle:
		return v.checkHandle(ctx, r, descriptor, idx)
	case v.cfg.Types.Enum:
		return v.checkEnum(ctx, r, descriptor, body, idx)
	case v.cfg.Types.Date, v.cfg.Types.Struct, v.cfg.Types.Object, v.cfg.Types.GeoJSON:
		// Reserved for future extension; accepted as-is.
		return true, nil
	default:
		return v.setStatus(types.StatusUnsupported, descriptor.Key, typeTag, idx, nil), nil
	}
}

// walkList checks the addressed value as an ordered sequence: optional
// cardinality bounds, element-wise recursion with the shared element
// section and, for sets, a uniqueness check over structural equality.
func (v *Validator) walkList(ctx context.Context, r ref, descriptor *types.Term, body map[string]interface{}, idx int, unique bool) (bool, error) {
	value := r.value()
	list, ok := value.([]interface{})
	if !ok {
		return v.setStatus(types.StatusNotAnArray, descriptor.Key, value, idx, nil), nil
	}

	tags := v.cfg.Fields
	if min, ok := integralValue(body[tags.MinItems]); ok && float64(len(list)) < min {
		return v.setStatus(types.StatusValueLowRange, descriptor.Key, value, idx, &statusExtras{section: v.cardinalitySection(body)}), nil
	}
	if max, ok := integralValue(body[tags.MaxItems]); ok && float64(len(list)) > max {
		return v.setStatus(types.StatusValueHighRange, descriptor.Key, value, idx, &statusExtras{section: v.cardinalitySection(body)}), nil
	}

	if unique {
		for i := 1; i < len(list); i++ {
			for j := 0; j < i; j++ {
				if structurallyEqual(list[i], list[j]) {
					return v.setStatus(types.StatusDuplicateSetElement, descriptor.Key, list[i], idx, &statusExtras{parent: list}), nil
				}
			}
		}
	}

	for i := range list {
		ok, err := v.walk(ctx, ref{list: list, index: i}, descriptor, body, idx)
		if err != nil {
			return false, err
		}
		if !ok {
			v.attachParent(idx, list)
			return false, nil
		}
	}
	return true, nil
}

// walkDict checks the addressed value as a mapping: every key is
// validated against the key section and every value against the value
// section. A key resolution rewrites the entry under its canonical key.
func (v *Validator) walkDict(ctx context.Context, r ref, descriptor *types.Term, body map[string]interface{}, idx int) (bool, error) {
	value := r.value()
	object, ok := value.(map[string]interface{})
	if !ok {
		return v.setStatus(types.StatusNotAnObject, descriptor.Key, value, idx, nil), nil
	}

	tags := v.cfg.Fields
	keySection, ok := body[tags.DictKey].(map[string]interface{})
	if !ok {
		return v.setStatus(types.StatusExpectingDataDimension, descriptor.Key, body, idx, nil), nil
	}
	valueSection, ok := body[tags.DictValue].(map[string]interface{})
	if !ok {
		return v.setStatus(types.StatusExpectingDataDimension, descriptor.Key, body, idx, nil), nil
	}

	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		wrapper := map[string]interface{}{descriptor.Key: key}
		ok, err := v.walk(ctx, ref{object: wrapper, field: descriptor.Key}, descriptor, keySection, idx)
		if err != nil {
			return false, err
		}
		if !ok {
			v.attachParent(idx, object)
			return false, nil
		}
		if resolved, isString := wrapper[descriptor.Key].(string); isString && resolved != key {
			object[resolved] = object[key]
			delete(object, key)
			key = resolved
		}

		ok, err = v.walk(ctx, ref{object: object, field: key}, descriptor, valueSection, idx)
		if err != nil {
			return false, err
		}
		if !ok {
			v.attachParent(idx, object)
			return false, nil
		}
	}
	return true, nil
}

// attachParent records the enclosing container on the failing slot,
// preserving an already attached inner container.
func (v *Validator) attachParent(idx int, parent interface{}) {
	if slot := v.slotAt(idx); slot != nil && slot.ParentValue == nil {
		slot.ParentValue = parent
	}
}

// cardinalitySection extracts the declared cardinality bounds for the
// report attachment.
func (v *Validator) cardinalitySection(body map[string]interface{}) map[string]interface{} {
	tags := v.cfg.Fields
	section := make(map[string]interface{}, 2)
	if bound, ok := body[tags.MinItems]; ok {
		section[tags.MinItems] = bound
	}
	if bound, ok := body[tags.MaxItems]; ok {
		section[tags.MaxItems] = bound
	}
	return section
}
