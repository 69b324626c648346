package validator

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harriteja/dict-go-sdk/pkg/cache"
	"github.com/harriteja/dict-go-sdk/pkg/types"
)

// mockStore implements store.Adapter for testing
type mockStore struct {
	docs        map[string]map[string]interface{}
	paths       map[string][]string
	codes       map[string][]string // "field/value/enumType" -> ids
	collections map[string]map[string]bool
	err         error
	fetchCount  int
}

func (m *mockStore) FetchTerm(ctx context.Context, id string) (map[string]interface{}, []string, error) {
	m.fetchCount++
	if m.err != nil {
		return nil, nil, m.err
	}
	doc, ok := m.docs[id]
	if !ok {
		return nil, nil, nil
	}
	return doc, m.paths[id], nil
}

func (m *mockStore) QueryByCode(ctx context.Context, field string, value interface{}, enumType string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	key, _ := value.(string)
	return m.codes[field+"/"+key+"/"+enumType], nil
}

func (m *mockStore) DocumentExists(ctx context.Context, collection, key string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.collections[collection][key], nil
}

func (m *mockStore) CollectionExists(ctx context.Context, name string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.collections[name]
	return ok, nil
}

func newTestCache(t *testing.T, s *mockStore) *cache.Cache {
	t.Helper()
	c, err := cache.New(cache.Options{Store: s})
	require.NoError(t, err)
	return c
}

func scalar(fields map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"_scalar": fields}
}

func descriptorDoc(data map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"_data": data}
}

func TestValidate_BooleanHappyPath(t *testing.T) {
	s := &mockStore{docs: map[string]map[string]interface{}{
		"D1": descriptorDoc(scalar(map[string]interface{}{"_type": "_type_boolean"})),
	}}
	v, err := New(Options{
		Value:      true,
		Descriptor: "D1",
		Cache:      newTestCache(t, s),
	})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, v.Report.Slot.OK())
	assert.Equal(t, true, v.Value)
}

func TestValidate_IntegerOutOfRange(t *testing.T) {
	rng := map[string]interface{}{
		"_min-range-inclusive": float64(0),
		"_max-range-inclusive": float64(10),
	}
	s := &mockStore{docs: map[string]map[string]interface{}{
		"D2": descriptorDoc(scalar(map[string]interface{}{
			"_type":        "_type_integer",
			"_valid-range": rng,
		})),
	}}
	v, err := New(Options{
		Value:      float64(11),
		Descriptor: "D2",
		Cache:      newTestCache(t, s),
	})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, types.StatusValueHighRange, v.Report.Slot.Status.Code)
	assert.Equal(t, rng, v.Report.Slot.Section)
}

func TestValidate_IntegerLowRange(t *testing.T) {
	s := &mockStore{docs: map[string]map[string]interface{}{
		"D2": descriptorDoc(scalar(map[string]interface{}{
			"_type":        "_type_integer",
			"_valid-range": map[string]interface{}{"_min-range-exclusive": float64(0)},
		})),
	}}
	v, err := New(Options{Value: float64(0), Descriptor: "D2", Cache: newTestCache(t, s)})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, types.StatusValueLowRange, v.Report.Slot.Status.Code)
}

func TestValidate_IntegerRejectsFraction(t *testing.T) {
	s := &mockStore{docs: map[string]map[string]interface{}{
		"D2": descriptorDoc(scalar(map[string]interface{}{"_type": "_type_integer"})),
	}}
	v, err := New(Options{Value: 3.5, Descriptor: "D2", Cache: newTestCache(t, s)})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, types.StatusNotAnInteger, v.Report.Slot.Status.Code)
}

func TestValidate_TimestampResolution(t *testing.T) {
	s := &mockStore{docs: map[string]map[string]interface{}{
		"D3": descriptorDoc(scalar(map[string]interface{}{"_type": "_type_timestamp"})),
	}}
	v, err := New(Options{
		Value:      "1970-01-01T00:00:00Z",
		Descriptor: "D3",
		Resolve:    true,
		Cache:      newTestCache(t, s),
	})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), v.Value)

	digest := ResolutionDigest("D3", "1970-01-01T00:00:00Z")
	require.Contains(t, v.Report.Slot.Changes, digest)
	change := v.Report.Slot.Changes[digest]
	assert.Equal(t, "D3", change.Field)
	assert.Equal(t, "1970-01-01T00:00:00Z", change.Original)
	assert.EqualValues(t, 0, change.Resolved)
}

func TestValidate_TimestampWithoutResolveIsPure(t *testing.T) {
	// P3: resolve disabled leaves the value untouched and reports are
	// reproducible across calls.
	s := &mockStore{docs: map[string]map[string]interface{}{
		"D3": descriptorDoc(scalar(map[string]interface{}{"_type": "_type_timestamp"})),
	}}
	v, err := New(Options{
		Value:      "1970-01-01T00:00:00Z",
		Descriptor: "D3",
		Cache:      newTestCache(t, s),
	})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1970-01-01T00:00:00Z", v.Value)
	first := v.Report

	ok, err = v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, first, v.Report)
}

func TestValidate_TimestampUnparseable(t *testing.T) {
	s := &mockStore{docs: map[string]map[string]interface{}{
		"D3": descriptorDoc(scalar(map[string]interface{}{"_type": "_type_timestamp"})),
	}}
	v, err := New(Options{Value: "not a date", Descriptor: "D3", Resolve: true, Cache: newTestCache(t, s)})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, types.StatusValueNotATimestamp, v.Report.Slot.Status.Code)
	assert.Equal(t, "not a date", v.Value)
}

func TestValidate_EnumFallbackResolution(t *testing.T) {
	s := &mockStore{
		docs: map[string]map[string]interface{}{
			"D4": descriptorDoc(scalar(map[string]interface{}{
				"_type": "_type_string_enum",
				"_kind": []interface{}{"TYPE_COLOR"},
			})),
		},
		codes: map[string][]string{
			"_lid/red/TYPE_COLOR": {"color_red"},
		},
	}
	v, err := New(Options{
		Value:      "red",
		Descriptor: "D4",
		Resolve:    true,
		Resolver:   "_lid",
		Cache:      newTestCache(t, s),
	})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "color_red", v.Value)
	assert.Contains(t, v.Report.Slot.Changes, ResolutionDigest("D4", "red"))
}

func TestValidate_EnumAmbiguousResolution(t *testing.T) {
	// P5: two or more candidates for every kind means no substitution.
	s := &mockStore{
		docs: map[string]map[string]interface{}{
			"D4": descriptorDoc(scalar(map[string]interface{}{
				"_type": "_type_string_enum",
				"_kind": []interface{}{"TYPE_COLOR"},
			})),
		},
		codes: map[string][]string{
			"_lid/red/TYPE_COLOR": {"color_red", "color_crimson"},
		},
	}
	v, err := New(Options{
		Value:      "red",
		Descriptor: "D4",
		Resolve:    true,
		Cache:      newTestCache(t, s),
	})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, types.StatusValueNotTerm, v.Report.Slot.Status.Code)
	assert.Equal(t, "red", v.Value)
}

func TestValidate_EnumDirectMatch(t *testing.T) {
	s := &mockStore{
		docs: map[string]map[string]interface{}{
			"D4": descriptorDoc(scalar(map[string]interface{}{
				"_type": "_type_string_enum",
				"_kind": []interface{}{"TYPE_COLOR"},
			})),
			"color_red": {},
		},
		paths: map[string][]string{
			"color_red": {"TYPE_COLOR"},
		},
	}
	v, err := New(Options{Value: "color_red", Descriptor: "D4", Cache: newTestCache(t, s)})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "color_red", v.Value)
}

func TestValidate_EnumWrongType(t *testing.T) {
	s := &mockStore{
		docs: map[string]map[string]interface{}{
			"D4": descriptorDoc(scalar(map[string]interface{}{
				"_type": "_type_string_enum",
				"_kind": []interface{}{"TYPE_COLOR"},
			})),
			"size_xl": {},
		},
		paths: map[string][]string{
			"size_xl": {"TYPE_SIZE"},
		},
	}
	v, err := New(Options{Value: "size_xl", Descriptor: "D4", Cache: newTestCache(t, s)})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, types.StatusNotCorrectEnumType, v.Report.Slot.Status.Code)
}

func TestValidate_ObjectUnknownDescriptorStrict(t *testing.T) {
	s := &mockStore{docs: map[string]map[string]interface{}{}}
	v, err := New(Options{
		Value:       map[string]interface{}{"D_NOPE": float64(1)},
		ExpectTerms: true,
		Cache:       newTestCache(t, s),
	})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, ok)
	require.NotNil(t, v.Report.Slot)
	assert.Equal(t, types.StatusUnknownTerm, v.Report.Slot.Status.Code)
	assert.Equal(t, "D_NOPE", v.Report.Slot.Descriptor)
}

func TestValidate_ObjectUnknownDescriptorLenient(t *testing.T) {
	s := &mockStore{docs: map[string]map[string]interface{}{}}
	v, err := New(Options{
		Value: map[string]interface{}{"D_NOPE": float64(1)},
		Cache: newTestCache(t, s),
	})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestValidate_EmptyObject(t *testing.T) {
	s := &mockStore{}
	v, err := New(Options{Value: map[string]interface{}{}, Cache: newTestCache(t, s)})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, types.StatusEmptyObject, v.Report.Slot.Status.Code)
}

func TestValidate_ZippedSlotIndependence(t *testing.T) {
	// P6: one failing element must not disturb its neighbors.
	s := &mockStore{docs: map[string]map[string]interface{}{
		"D2": descriptorDoc(scalar(map[string]interface{}{
			"_type": "_type_integer",
			"_valid-range": map[string]interface{}{
				"_min-range-inclusive": float64(0),
				"_max-range-inclusive": float64(10),
			},
		})),
	}}
	v, err := New(Options{
		Value:      []interface{}{float64(3), float64(11), float64(7)},
		Descriptor: "D2",
		Zip:        true,
		Cache:      newTestCache(t, s),
	})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, ok)
	require.Len(t, v.Report.Slots, 3)
	assert.True(t, v.Report.Slots[0].OK())
	assert.Equal(t, types.StatusValueHighRange, v.Report.Slots[1].Status.Code)
	assert.True(t, v.Report.Slots[2].OK())
}

func TestValidate_UnknownDescriptorTerm(t *testing.T) {
	s := &mockStore{}
	v, err := New(Options{Value: true, Descriptor: "D_MISSING", Cache: newTestCache(t, s)})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, types.StatusUnknownTerm, v.Report.Slot.Status.Code)
}

func TestValidate_DescriptorWithoutDataSection(t *testing.T) {
	s := &mockStore{docs: map[string]map[string]interface{}{
		"E1": {"_rule": map[string]interface{}{}},
	}}
	v, err := New(Options{Value: true, Descriptor: "E1", Cache: newTestCache(t, s)})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, types.StatusNotADescriptor, v.Report.Slot.Status.Code)
}

func TestValidate_StoreErrorIsFatal(t *testing.T) {
	s := &mockStore{err: errors.New("connection refused")}
	v, err := New(Options{Value: true, Descriptor: "D1", Cache: newTestCache(t, s)})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, types.StatusStoreError, v.Report.Slot.Status.Code)
}

func TestValidate_Cancellation(t *testing.T) {
	s := &mockStore{docs: map[string]map[string]interface{}{
		"D1": descriptorDoc(scalar(map[string]interface{}{"_type": "_type_boolean"})),
	}}
	v, err := New(Options{Value: true, Descriptor: "D1", Cache: newTestCache(t, s)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := v.Validate(ctx, "")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, types.StatusCancelled, v.Report.Slot.Status.Code)
}

func TestValidate_FirstErrorWins(t *testing.T) {
	// P7: the first failing key in traversal order names the slot code;
	// later keys are never reached.
	s := &mockStore{docs: map[string]map[string]interface{}{
		"A_first": descriptorDoc(scalar(map[string]interface{}{"_type": "_type_boolean"})),
		"B_second": descriptorDoc(scalar(map[string]interface{}{
			"_type": "_type_integer",
			"_valid-range": map[string]interface{}{
				"_max-range-inclusive": float64(5),
			},
		})),
	}}
	v, err := New(Options{
		Value: map[string]interface{}{
			"A_first":  "not a boolean",
			"B_second": float64(99),
		},
		Cache: newTestCache(t, s),
	})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, types.StatusNotABoolean, v.Report.Slot.Status.Code)
	assert.Equal(t, "A_first", v.Report.Slot.Descriptor)
}

func TestValidate_BagMode(t *testing.T) {
	s := &mockStore{docs: map[string]map[string]interface{}{
		"D1": descriptorDoc(scalar(map[string]interface{}{"_type": "_type_boolean"})),
	}}
	v, err := New(Options{
		Value: []interface{}{
			map[string]interface{}{"D1": true},
			map[string]interface{}{"D1": "nope"},
		},
		Cache: newTestCache(t, s),
	})
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, ok)
	require.Len(t, v.Report.Slots, 2)
	assert.True(t, v.Report.Slots[0].OK())
	assert.Equal(t, types.StatusNotABoolean, v.Report.Slots[1].Status.Code)
}

func TestValidate_LocalizedMessages(t *testing.T) {
	s := &mockStore{docs: map[string]map[string]interface{}{
		"D1": descriptorDoc(scalar(map[string]interface{}{"_type": "_type_boolean"})),
	}}
	v, err := New(Options{Value: "x", Descriptor: "D1", Cache: newTestCache(t, s)})
	require.NoError(t, err)

	_, err = v.Validate(context.Background(), "it")
	assert.NoError(t, err)
	assert.Equal(t, types.StatusMessage(types.StatusNotABoolean, "it"), v.Report.Slot.Status.Message)
}

func TestNew_OptionValidation(t *testing.T) {
	s := &mockStore{}
	c := newTestCache(t, s)

	_, err := New(Options{Value: true})
	assert.Error(t, err)

	_, err = New(Options{Cache: c})
	assert.Error(t, err)

	_, err = New(Options{Value: true, Zip: true, Cache: c})
	assert.Error(t, err)

	_, err = New(Options{Value: true, Zip: true, Descriptor: "D1", Cache: c})
	assert.Error(t, err)

	_, err = New(Options{Value: true, Cache: c})
	assert.Error(t, err)

	_, err = New(Options{Value: []interface{}{"scalar"}, Cache: c})
	assert.Error(t, err)
}
