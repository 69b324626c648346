// Package config holds the pure-data configuration of the dictionary
// validation service: the in-store field tags the validator references,
// the store location and the HTTP service settings.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FieldTags names the in-store field tags the validator references.
// The validator hard-codes none of these; they are read once at startup.
type FieldTags struct {
	// Term document sections
	Key  string `yaml:"key"`
	Code string `yaml:"code"`
	Data string `yaml:"data"`
	Rule string `yaml:"rule"`

	// Data section dimensions
	Scalar string `yaml:"scalar"`
	Array  string `yaml:"array"`
	Set    string `yaml:"set"`
	Dict   string `yaml:"dict"`

	// Scalar qualifiers
	Type   string `yaml:"type"`
	Range  string `yaml:"range"`
	Regexp string `yaml:"regexp"`
	Kind   string `yaml:"kind"`

	// Range bounds
	MinInclusive string `yaml:"minInclusive"`
	MinExclusive string `yaml:"minExclusive"`
	MaxInclusive string `yaml:"maxInclusive"`
	MaxExclusive string `yaml:"maxExclusive"`

	// Container qualifiers
	MinItems  string `yaml:"minItems"`
	MaxItems  string `yaml:"maxItems"`
	DictKey   string `yaml:"dictKey"`
	DictValue string `yaml:"dictValue"`

	// Code section fields
	LocalIdentifier string `yaml:"localIdentifier"`
	Namespace       string `yaml:"namespace"`

	// Kind options
	AnyTerm       string `yaml:"anyTerm"`
	AnyEnum       string `yaml:"anyEnum"`
	AnyDescriptor string `yaml:"anyDescriptor"`
	AnyObject     string `yaml:"anyObject"`
}

// TypeTags names the recognized scalar type tags as stored in the
// dictionary.
type TypeTags struct {
	Boolean   string `yaml:"boolean"`
	Integer   string `yaml:"integer"`
	Number    string `yaml:"number"`
	Timestamp string `yaml:"timestamp"`
	String    string `yaml:"string"`
	Key       string `yaml:"key"`
	Handle    string `yaml:"handle"`
	Enum      string `yaml:"enum"`
	Date      string `yaml:"date"`
	Struct    string `yaml:"struct"`
	Object    string `yaml:"object"`
	GeoJSON   string `yaml:"geojson"`
}

// Dictionary groups the dictionary-level names: the enumeration edge
// predicate, the reserved default namespace key and the collections.
type Dictionary struct {
	EnumPredicate       string `yaml:"enumPredicate"`
	DefaultNamespaceKey string `yaml:"defaultNamespaceKey"`
	TermsCollection     string `yaml:"termsCollection"`
	EdgesCollection     string `yaml:"edgesCollection"`
	// DefaultResolver is the code-section field probed during enum
	// resolution when the caller names none
	DefaultResolver string `yaml:"defaultResolver"`
	// DefaultLanguage is the report message language fallback
	DefaultLanguage string `yaml:"defaultLanguage"`
}

// Store configures the dictionary store backend.
type Store struct {
	// Path of the sqlite database file
	Path string `yaml:"path"`
	// BusyTimeout for sqlite lock contention
	BusyTimeout time.Duration `yaml:"busyTimeout"`
}

// Server configures the HTTP service.
type Server struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
	// RateLimit is the sustained requests-per-second budget; zero
	// disables limiting
	RateLimit int `yaml:"rateLimit"`
	// JWTSecret enables bearer authentication when non-empty
	JWTSecret string `yaml:"jwtSecret"`
}

// Config is the root configuration structure.
type Config struct {
	Fields     FieldTags  `yaml:"fields"`
	Types      TypeTags   `yaml:"types"`
	Dictionary Dictionary `yaml:"dictionary"`
	Store      Store      `yaml:"store"`
	Server     Server     `yaml:"server"`
}

// Default returns the configuration matching the reference dictionary
// layout.
func Default() *Config {
	return &Config{
		Fields: FieldTags{
			Key:  "_key",
			Code: "_code",
			Data: "_data",
			Rule: "_rule",

			Scalar: "_scalar",
			Array:  "_array",
			Set:    "_set",
			Dict:   "_dict",

			Type:   "_type",
			Range:  "_valid-range",
			Regexp: "_regexp",
			Kind:   "_kind",

			MinInclusive: "_min-range-inclusive",
			MinExclusive: "_min-range-exclusive",
			MaxInclusive: "_max-range-inclusive",
			MaxExclusive: "_max-range-exclusive",

			MinItems:  "_min-items",
			MaxItems:  "_max-items",
			DictKey:   "_dict_key",
			DictValue: "_dict_value",

			LocalIdentifier: "_lid",
			Namespace:       "_nid",

			AnyTerm:       "_any-term",
			AnyEnum:       "_any-enum",
			AnyDescriptor: "_any-descriptor",
			AnyObject:     "_any-object",
		},
		Types: TypeTags{
			Boolean:   "_type_boolean",
			Integer:   "_type_integer",
			Number:    "_type_number",
			Timestamp: "_type_timestamp",
			String:    "_type_string",
			Key:       "_type_string_key",
			Handle:    "_type_string_handle",
			Enum:      "_type_string_enum",
			Date:      "_type_string_date",
			Struct:    "_type_struct",
			Object:    "_type_object",
			GeoJSON:   "_type_geo-json",
		},
		Dictionary: Dictionary{
			EnumPredicate:       "_predicate_enum-of",
			DefaultNamespaceKey: ":",
			TermsCollection:     "terms",
			EdgesCollection:     "edges",
			DefaultResolver:     "_lid",
			DefaultLanguage:     "en",
		},
		Store: Store{
			Path:        "dictionary.db",
			BusyTimeout: 5 * time.Second,
		},
		Server: Server{
			Address:      ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}
}

// Load reads a YAML configuration file layered over the defaults.
// Environment variables DICT_STORE_PATH and DICT_SERVER_ADDRESS override
// the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read configuration file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse configuration file")
		}
	}

	if v := os.Getenv("DICT_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("DICT_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}

	return cfg, nil
}
