// Package validator implements schema-driven validation of arbitrary
// values against the data dictionary. A validator instance interprets a
// descriptor term's data section as a nested dimension/type program,
// walks the value against it and produces a structured report, resolving
// almost-correct values into canonical form when requested.
package validator

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/harriteja/dict-go-sdk/pkg/cache"
	"github.com/harriteja/dict-go-sdk/pkg/config"
	"github.com/harriteja/dict-go-sdk/pkg/types"
)

// slotSingle addresses the single-slot report field instead of the
// indexed sequence.
const slotSingle = -1

// Options represents validator construction options
type Options struct {
	// Value is the value to validate (required)
	Value interface{}
	// Descriptor is the key of the descriptor term to validate against;
	// empty means the value's own keys name the descriptors
	Descriptor string

	// Zip validates a list of values element-wise against Descriptor
	Zip bool
	// UseCache consults and populates the global term cache
	UseCache bool
	// CacheMissing caches store misses to suppress repeat lookups
	CacheMissing bool
	// ExpectTerms fails object keys that do not resolve to terms
	ExpectTerms bool
	// ExpectType fails scalar sections that declare no data type
	ExpectType bool
	// Resolve rewrites almost-correct values into canonical form
	Resolve bool
	// DefNamespace accepts an empty namespace key reference
	DefNamespace bool
	// Resolver is the code-section field probed during enum resolution;
	// defaults to the configured local identifier field
	Resolver string

	// Cache is the shared term cache (required)
	Cache *cache.Cache
	// Config names the dictionary field tags; defaults to config.Default()
	Config *config.Config
	// Logger instance
	Logger *zap.Logger
	// Batch is an optional overlay of staged terms
	Batch *cache.Batch
}

// Validator checks one value against the dictionary. An instance is not
// safe for concurrent use; distinct instances may run concurrently and
// share the term cache.
type Validator struct {
	// Value is the value under validation. When Resolve is set it may be
	// rewritten in place during Validate.
	Value interface{}
	// Term is the resolved descriptor term, when a descriptor was given
	Term *types.Term
	// Report is the outcome of the last Validate call
	Report types.Report

	opts     Options
	cfg      *config.Config
	cache    *cache.Cache
	logger   *zap.Logger
	lookup   cache.LookupOptions
	resolver string
	language string
}

// New creates a validator, rejecting inconsistent option combinations up
// front. Construction failures are programmer errors, not validation
// results.
func New(opts Options) (*Validator, error) {
	if opts.Cache == nil {
		return nil, errors.New("validator requires a term cache")
	}
	if opts.Value == nil {
		return nil, errors.New("validator requires a value")
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	if opts.Zip {
		if opts.Descriptor == "" {
			return nil, errors.New("zipped validation requires a descriptor")
		}
		if _, ok := opts.Value.([]interface{}); !ok {
			return nil, errors.New("zipped validation requires a list value")
		}
	}

	if opts.Descriptor == "" {
		switch value := opts.Value.(type) {
		case map[string]interface{}:
			// object mode
		case []interface{}:
			for _, elem := range value {
				if _, ok := elem.(map[string]interface{}); !ok {
					return nil, errors.New("without a descriptor a list value must contain only objects")
				}
			}
		default:
			return nil, errors.New("without a descriptor the value must be an object or a list of objects")
		}
	}

	resolver := opts.Resolver
	if resolver == "" {
		resolver = opts.Config.Dictionary.DefaultResolver
	}

	return &Validator{
		Value:    opts.Value,
		opts:     opts,
		cfg:      opts.Config,
		cache:    opts.Cache,
		logger:   opts.Logger,
		resolver: resolver,
		lookup: cache.LookupOptions{
			UseCache:     opts.UseCache,
			UseBatch:     opts.Batch != nil,
			CacheMissing: opts.CacheMissing,
			Batch:        opts.Batch,
		},
	}, nil
}

// Validate runs the validation and reports whether every slot is valid.
// The report is available on the instance afterwards. A non-nil error
// signals an infrastructure failure (the store, or cancellation); the
// open slot then carries the matching status.
func (v *Validator) Validate(ctx context.Context, language string) (bool, error) {
	if language == "" {
		language = v.cfg.Dictionary.DefaultLanguage
	}
	v.language = language
	v.Report = types.Report{}

	if v.opts.Descriptor != "" {
		term, err := v.cache.GetTerm(ctx, v.opts.Descriptor, v.lookup)
		if err != nil {
			v.setStatus(types.StatusStoreError, v.opts.Descriptor, nil, slotSingle, nil)
			return false, err
		}
		if term == nil {
			v.setStatus(types.StatusUnknownTerm, v.opts.Descriptor, nil, slotSingle, nil)
			return false, nil
		}
		if !term.IsDescriptor() {
			v.setStatus(types.StatusNotADescriptor, v.opts.Descriptor, nil, slotSingle, nil)
			return false, nil
		}
		v.Term = term
	}

	var err error
	switch {
	case v.opts.Zip:
		err = v.validateZipped(ctx)
	case v.Term != nil:
		err = v.validateSingle(ctx)
	default:
		switch value := v.Value.(type) {
		case map[string]interface{}:
			v.Report.Slot = types.NewIdleSlot(v.language)
			_, err = v.validateObject(ctx, value, slotSingle)
		case []interface{}:
			err = v.validateBag(ctx, value)
		}
	}
	if err != nil {
		return false, err
	}
	return v.Report.Valid(), nil
}

// validateSingle checks one value against the resolved descriptor.
func (v *Validator) validateSingle(ctx context.Context) error {
	v.Report.Slot = types.NewIdleSlot(v.language)

	wrapper := map[string]interface{}{v.Term.Key: v.Value}
	_, err := v.walk(ctx, ref{object: wrapper, field: v.Term.Key}, v.Term, v.Term.Data, slotSingle)
	v.Value = wrapper[v.Term.Key]
	return err
}

// validateZipped checks each element of the value list against the
// resolved descriptor, one report slot per element. Slots are
// independent: an error in one does not stop the others.
func (v *Validator) validateZipped(ctx context.Context) error {
	list := v.Value.([]interface{})
	v.Report.Slots = make([]*types.Slot, len(list))
	for i := range list {
		v.Report.Slots[i] = types.NewIdleSlot(v.language)
	}

	for i := range list {
		wrapper := map[string]interface{}{v.Term.Key: list[i]}
		_, err := v.walk(ctx, ref{object: wrapper, field: v.Term.Key}, v.Term, v.Term.Data, i)
		list[i] = wrapper[v.Term.Key]
		if err != nil {
			return err
		}
	}
	return nil
}

// validateBag checks a list of objects, one report slot per object.
func (v *Validator) validateBag(ctx context.Context, list []interface{}) error {
	v.Report.Slots = make([]*types.Slot, len(list))
	for i := range list {
		v.Report.Slots[i] = types.NewIdleSlot(v.language)
	}

	for i, elem := range list {
		object, ok := elem.(map[string]interface{})
		if !ok {
			v.setStatus(types.StatusNotAnObject, "", elem, i, nil)
			continue
		}
		if _, err := v.validateObject(ctx, object, i); err != nil {
			return err
		}
	}
	return nil
}

// validateObject treats each key of the object as a descriptor term key
// and checks the matching value against it. The first failing key
// terminates the slot.
func (v *Validator) validateObject(ctx context.Context, object map[string]interface{}, idx int) (bool, error) {
	if len(object) == 0 {
		return v.setStatus(types.StatusEmptyObject, "", object, idx, nil), nil
	}

	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		term, err := v.cache.GetTerm(ctx, key, v.lookup)
		if err != nil {
			v.setStatus(types.StatusStoreError, key, nil, idx, nil)
			return false, err
		}
		if term == nil {
			if v.opts.ExpectTerms {
				return v.setStatus(types.StatusUnknownTerm, key, object[key], idx, nil), nil
			}
			continue
		}
		if !term.IsDescriptor() {
			return v.setStatus(types.StatusNotADescriptor, key, object[key], idx, nil), nil
		}
		ok, err := v.walk(ctx, ref{object: object, field: key}, term, term.Data, idx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
