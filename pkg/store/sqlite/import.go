package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// dictionaryFileSchema describes the JSON layout of a dictionary seed
// file: a list of term documents plus the enumeration edges between
// them.
const dictionaryFileSchema = `{
	"type": "object",
	"required": ["terms"],
	"properties": {
		"terms": {
			"type": "array",
			"items": {"type": "object"}
		},
		"edges": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["_from", "_predicate", "_path"],
				"properties": {
					"_from": {"type": "string"},
					"_predicate": {"type": "string"},
					"_path": {
						"type": "array",
						"items": {"type": "string"}
					}
				}
			}
		}
	}
}`

// dictionaryFile mirrors the seed file layout after schema validation.
type dictionaryFile struct {
	Terms []map[string]interface{} `json:"terms"`
	Edges []struct {
		From      string   `json:"_from"`
		Predicate string   `json:"_predicate"`
		Path      []string `json:"_path"`
	} `json:"edges"`
}

// ImportDictionary loads a dictionary seed file into the store,
// replacing existing terms and edges with the same identity. The file is
// validated against the seed schema before anything is written.
func (s *Store) ImportDictionary(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read dictionary file")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(dictionaryFileSchema),
		gojsonschema.NewBytesLoader(data))
	if err != nil {
		return 0, errors.Wrap(err, "failed to validate dictionary file")
	}
	if !result.Valid() {
		var msg string
		for _, e := range result.Errors() {
			msg += fmt.Sprintf("%s; ", e.String())
		}
		return 0, errors.Errorf("invalid dictionary file: %s", msg)
	}

	var file dictionaryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return 0, errors.Wrap(err, "failed to parse dictionary file")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin import transaction")
	}
	defer tx.Rollback()

	for _, doc := range file.Terms {
		key, ok := doc[s.keyField].(string)
		if !ok || key == "" {
			return 0, errors.Errorf("term document missing %q field", s.keyField)
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to serialize term %q", key)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO terms (key, doc) VALUES (?, ?)", key, string(raw)); err != nil {
			return 0, errors.Wrapf(err, "failed to store term %q", key)
		}
	}

	for _, edge := range file.Edges {
		raw, err := json.Marshal(edge.Path)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to serialize edge path for %q", edge.From)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM edges WHERE from_key = ? AND predicate = ?",
			edge.From, edge.Predicate); err != nil {
			return 0, errors.Wrapf(err, "failed to replace edges for %q", edge.From)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO edges (from_key, predicate, path) VALUES (?, ?, ?)",
			edge.From, edge.Predicate, string(raw)); err != nil {
			return 0, errors.Wrapf(err, "failed to store edge for %q", edge.From)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit import")
	}

	s.logger.Info("Dictionary imported",
		zap.String("path", path),
		zap.Int("terms", len(file.Terms)),
		zap.Int("edges", len(file.Edges)))

	return len(file.Terms), nil
}
