// Package regfile loads constraint registries from YAML files:
//
//	types:
//	  - type: '"example.com/shapes".Calculator'
//	    methods:
//	      - name: Square
//	        params: [input]
//	        constraints:
//	          - param: input
//	            rules: [notnull, min=0]
//	      - name: Scale
//	        constraints:
//	          - index: 1
//	            rules: ['pattern="^[a-z ]+$"']
//
// Documents are validated against an embedded JSON Schema before decoding.
package regfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/sirkon/mockguard/constraint"
	"github.com/sirkon/mockguard/metadata"
)

//go:embed schema.json
var schemaSource []byte

const schemaURL = "https://mockguard.local/registry.schema.json"

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func registrySchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaSource)); err != nil {
			schemaErr = fmt.Errorf("load registry schema: %w", err)
			return
		}

		schemaCompiled, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile registry schema: %w", schemaErr)
		}
	})

	return schemaCompiled, schemaErr
}

type fileDoc struct {
	Types []fileType `yaml:"types"`
}

type fileType struct {
	Type    metadata.Reference `yaml:"type"`
	Methods []fileMethod       `yaml:"methods"`
}

type fileMethod struct {
	Name        string        `yaml:"name"`
	Params      []string      `yaml:"params"`
	Constraints []fileBinding `yaml:"constraints"`
}

type fileBinding struct {
	Param string                  `yaml:"param"`
	Index int                     `yaml:"index"`
	Rules []constraint.Constraint `yaml:"rules"`
}

// Load reads a registry file.
func Load(path string) (*metadata.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse registry file %s: %w", path, err)
	}

	return reg, nil
}

// LoadAll reads several registry files into a single registry.
func LoadAll(paths ...string) (*metadata.Registry, error) {
	reg := metadata.NewRegistry()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read registry file: %w", err)
		}

		if err := ParseInto(reg, data); err != nil {
			return nil, fmt.Errorf("parse registry file %s: %w", path, err)
		}
	}

	return reg, nil
}

// Parse parses registry document.
func Parse(data []byte) (*metadata.Registry, error) {
	reg := metadata.NewRegistry()
	if err := ParseInto(reg, data); err != nil {
		return nil, err
	}

	return reg, nil
}

// ParseInto parses registry document and adds its declarations to the registry.
func ParseInto(reg *metadata.Registry, data []byte) error {
	if err := Validate(data); err != nil {
		return err
	}

	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode registry: %w", err)
	}

	for _, ft := range doc.Types {
		if ft.Type.Method != "" {
			return fmt.Errorf("type reference %s must not point to a method", ft.Type)
		}

		tb := reg.TypeRef(ft.Type)
		for _, fm := range ft.Methods {
			mb := tb.Method(fm.Name)
			if len(fm.Params) > 0 {
				mb.Params(fm.Params...)
			}

			for _, b := range fm.Constraints {
				if b.Param != "" {
					mb.Named(b.Param, b.Rules...)
					continue
				}
				mb.Param(b.Index, b.Rules...)
			}
		}
	}

	return nil
}

// Validate checks the document against the registry schema without decoding it.
func Validate(data []byte) error {
	schema, err := registrySchema()
	if err != nil {
		return err
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode registry: %w", err)
	}

	// The schema validator works on JSON values: round trip them.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("convert registry to JSON: %w", err)
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return fmt.Errorf("convert registry to JSON: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("validate registry: %w", err)
	}

	return nil
}
