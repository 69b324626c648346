package validator

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harriteja/dict-go-sdk/pkg/types"
)

// timestampLayouts are tried in order when interpreting a string as a
// date. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// checkBoolean accepts exactly a boolean value.
func (v *Validator) checkBoolean(r ref, descriptor *types.Term, idx int) bool {
	if _, ok := r.value().(bool); !ok {
		return v.setStatus(types.StatusNotABoolean, descriptor.Key, r.value(), idx, nil)
	}
	return true
}

// checkInteger accepts a numeric with no fractional part, then applies
// the numeric range.
func (v *Validator) checkInteger(r ref, descriptor *types.Term, body map[string]interface{}, idx int) bool {
	n, ok := integralValue(r.value())
	if !ok {
		return v.setStatus(types.StatusNotAnInteger, descriptor.Key, r.value(), idx, nil)
	}
	return v.checkRange(n, descriptor, body, idx)
}

// checkNumber accepts any numeric, then applies the numeric range.
func (v *Validator) checkNumber(r ref, descriptor *types.Term, body map[string]interface{}, idx int) bool {
	n, ok := numericValue(r.value())
	if !ok {
		return v.setStatus(types.StatusNotANumber, descriptor.Key, r.value(), idx, nil)
	}
	return v.checkRange(n, descriptor, body, idx)
}

// checkTimestamp accepts milliseconds since the epoch, or a date string
// which is resolved in place to its numeric epoch and logged as a
// substitution.
func (v *Validator) checkTimestamp(r ref, descriptor *types.Term, body map[string]interface{}, idx int) bool {
	value := r.value()

	if n, ok := numericValue(value); ok {
		return v.checkRange(n, descriptor, body, idx)
	}

	text, ok := value.(string)
	if !ok {
		return v.setStatus(types.StatusValueNotATimestamp, descriptor.Key, value, idx, nil)
	}

	for _, layout := range timestampLayouts {
		parsed, err := time.ParseInLocation(layout, text, time.UTC)
		if err != nil {
			continue
		}
		epoch := parsed.UnixMilli()
		if v.opts.Resolve {
			r.assign(epoch)
			v.logResolution(descriptor.Key, text, epoch, idx)
		}
		return v.checkRange(float64(epoch), descriptor, body, idx)
	}

	return v.setStatus(types.StatusValueNotATimestamp, descriptor.Key, value, idx, nil)
}

// checkString accepts a string, matches the optional regular expression
// and applies the string range.
func (v *Validator) checkString(r ref, descriptor *types.Term, body map[string]interface{}, idx int) bool {
	text, ok := r.value().(string)
	if !ok {
		return v.setStatus(types.StatusNotAString, descriptor.Key, r.value(), idx, nil)
	}

	if pattern, ok := body[v.cfg.Fields.Regexp].(string); ok && pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			// A broken pattern cannot prove the value; treat as no match.
			v.logger.Warn("Invalid descriptor regular expression",
				zap.String("descriptor", descriptor.Key),
				zap.String("pattern", pattern),
				zap.Error(err))
			return v.setStatus(types.StatusNoMatchRegexp, descriptor.Key, text, idx, &statusExtras{regexp: pattern})
		}
		if !re.MatchString(text) {
			return v.setStatus(types.StatusNoMatchRegexp, descriptor.Key, text, idx, &statusExtras{regexp: pattern})
		}
	}

	return v.checkRange(text, descriptor, body, idx)
}

// checkRange applies the declared range to a numeric or string value.
// Bounds are evaluated in a fixed order: minInclusive, minExclusive,
// maxInclusive, maxExclusive. A range that is not an object is a schema
// defect.
func (v *Validator) checkRange(value interface{}, descriptor *types.Term, body map[string]interface{}, idx int) bool {
	raw, declared := body[v.cfg.Fields.Range]
	if !declared {
		return true
	}
	section, ok := raw.(map[string]interface{})
	if !ok {
		return v.setStatus(types.StatusRangeNotAnObject, descriptor.Key, raw, idx, nil)
	}

	tags := v.cfg.Fields
	extras := &statusExtras{section: section}

	if bound, ok := section[tags.MinInclusive]; ok {
		cmp, comparable := compareValues(value, bound)
		if !comparable {
			return v.setStatus(types.StatusValueOutOfRange, descriptor.Key, value, idx, extras)
		}
		if cmp < 0 {
			return v.setStatus(types.StatusValueLowRange, descriptor.Key, value, idx, extras)
		}
	}
	if bound, ok := section[tags.MinExclusive]; ok {
		cmp, comparable := compareValues(value, bound)
		if !comparable {
			return v.setStatus(types.StatusValueOutOfRange, descriptor.Key, value, idx, extras)
		}
		if cmp <= 0 {
			return v.setStatus(types.StatusValueLowRange, descriptor.Key, value, idx, extras)
		}
	}
	if bound, ok := section[tags.MaxInclusive]; ok {
		cmp, comparable := compareValues(value, bound)
		if !comparable {
			return v.setStatus(types.StatusValueOutOfRange, descriptor.Key, value, idx, extras)
		}
		if cmp > 0 {
			return v.setStatus(types.StatusValueHighRange, descriptor.Key, value, idx, extras)
		}
	}
	if bound, ok := section[tags.MaxExclusive]; ok {
		cmp, comparable := compareValues(value, bound)
		if !comparable {
			return v.setStatus(types.StatusValueOutOfRange, descriptor.Key, value, idx, extras)
		}
		if cmp >= 0 {
			return v.setStatus(types.StatusValueHighRange, descriptor.Key, value, idx, extras)
		}
	}
	return true
}

// compareValues compares a value against a range bound: numerics
// compare numerically, strings lexicographically. Mixed or non-ordered
// types are not comparable.
func compareValues(value, bound interface{}) (int, bool) {
	if n, ok := numericValue(value); ok {
		b, ok := numericValue(bound)
		if !ok {
			return 0, false
		}
		switch {
		case n < b:
			return -1, true
		case n > b:
			return 1, true
		default:
			return 0, true
		}
	}
	if s, ok := value.(string); ok {
		b, ok := bound.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(s, b), true
	}
	return 0, false
}
