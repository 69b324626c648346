package sqlite

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Options{
		Path:          filepath.Join(t.TempDir(), "dict.db"),
		KeyField:      "_key",
		CodeSection:   "_code",
		EnumPredicate: "_predicate_enum-of",
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedTerm(t *testing.T, s *Store, key string, doc map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	_, err = s.db.Exec("INSERT OR REPLACE INTO terms (key, doc) VALUES (?, ?)", key, string(raw))
	require.NoError(t, err)
}

func seedEdge(t *testing.T, s *Store, from string, path []string) {
	t.Helper()
	raw, err := json.Marshal(path)
	require.NoError(t, err)
	_, err = s.db.Exec("INSERT INTO edges (from_key, predicate, path) VALUES (?, ?, ?)",
		from, "_predicate_enum-of", string(raw))
	require.NoError(t, err)
}

func TestNew_OptionValidation(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	_, err = New(Options{Path: ":memory:"})
	assert.Error(t, err)
}

func TestFetchTerm(t *testing.T) {
	s := newTestStore(t)
	seedTerm(t, s, "color_red", map[string]interface{}{
		"_key":  "color_red",
		"_code": map[string]interface{}{"_lid": "red"},
	})
	seedEdge(t, s, "color_red", []string{"TYPE_COLOR", "TYPE_WARM"})
	seedEdge(t, s, "color_red", []string{"TYPE_COLOR", "TYPE_PRIMARY"})

	doc, paths, err := s.FetchTerm(context.Background(), "color_red")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "color_red", doc["_key"])
	// Edge paths are merged in order with duplicates dropped.
	assert.Equal(t, []string{"TYPE_COLOR", "TYPE_WARM", "TYPE_PRIMARY"}, paths)
}

func TestFetchTerm_Absent(t *testing.T) {
	s := newTestStore(t)

	doc, paths, err := s.FetchTerm(context.Background(), "ghost")
	assert.NoError(t, err)
	assert.Nil(t, doc)
	assert.Nil(t, paths)
}

func TestQueryByCode(t *testing.T) {
	s := newTestStore(t)
	seedTerm(t, s, "color_red", map[string]interface{}{
		"_key":  "color_red",
		"_code": map[string]interface{}{"_lid": "red"},
	})
	seedTerm(t, s, "color_blue", map[string]interface{}{
		"_key":  "color_blue",
		"_code": map[string]interface{}{"_lid": "blue"},
	})
	seedTerm(t, s, "size_red", map[string]interface{}{
		"_key":  "size_red",
		"_code": map[string]interface{}{"_lid": "red"},
	})
	seedEdge(t, s, "color_red", []string{"TYPE_COLOR"})
	seedEdge(t, s, "color_blue", []string{"TYPE_COLOR"})
	seedEdge(t, s, "size_red", []string{"TYPE_SIZE"})

	ids, err := s.QueryByCode(context.Background(), "_lid", "red", "TYPE_COLOR")
	require.NoError(t, err)
	assert.Equal(t, []string{"color_red"}, ids)

	ids, err = s.QueryByCode(context.Background(), "_lid", "red", "TYPE_SIZE")
	require.NoError(t, err)
	assert.Equal(t, []string{"size_red"}, ids)

	ids, err = s.QueryByCode(context.Background(), "_lid", "green", "TYPE_COLOR")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = s.QueryByCode(context.Background(), "bad field", "red", "TYPE_COLOR")
	assert.Error(t, err)
}

func TestDocumentAndCollectionExists(t *testing.T) {
	s := newTestStore(t)
	seedTerm(t, s, "color_red", map[string]interface{}{"_key": "color_red"})

	exists, err := s.CollectionExists(context.Background(), "terms")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.CollectionExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = s.DocumentExists(context.Background(), "terms", "color_red")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.DocumentExists(context.Background(), "terms", "ghost")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = s.DocumentExists(context.Background(), "missing", "color_red")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.DocumentExists(context.Background(), "bad name", "color_red")
	assert.Error(t, err)
}

func TestImportDictionary(t *testing.T) {
	s := newTestStore(t)

	seed := map[string]interface{}{
		"terms": []interface{}{
			map[string]interface{}{
				"_key":  "color_red",
				"_code": map[string]interface{}{"_lid": "red"},
			},
			map[string]interface{}{
				"_key":  "TYPE_COLOR",
				"_data": map[string]interface{}{},
			},
		},
		"edges": []interface{}{
			map[string]interface{}{
				"_from":      "color_red",
				"_predicate": "_predicate_enum-of",
				"_path":      []interface{}{"TYPE_COLOR"},
			},
		},
	}
	raw, err := json.Marshal(seed)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	count, err := s.ImportDictionary(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	doc, paths, err := s.FetchTerm(context.Background(), "color_red")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, []string{"TYPE_COLOR"}, paths)

	// Re-import replaces, not duplicates.
	count, err = s.ImportDictionary(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	_, paths, err = s.FetchTerm(context.Background(), "color_red")
	require.NoError(t, err)
	assert.Equal(t, []string{"TYPE_COLOR"}, paths)
}

func TestImportDictionary_RejectsMalformed(t *testing.T) {
	s := newTestStore(t)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"edges": []}`), 0o600))
	_, err := s.ImportDictionary(context.Background(), path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"terms": [{"no_key": true}]}`), 0o600))
	_, err = s.ImportDictionary(context.Background(), path)
	assert.Error(t, err)
}
