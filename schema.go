package eatery

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var schemas struct {
	once     sync.Once
	err      error
	compiled map[string]*jsonschema.Schema
}

// loadSchemas compiles every embedded content schema once.
func loadSchemas() (map[string]*jsonschema.Schema, error) {
	schemas.once.Do(func() {
		schemas.compiled = make(map[string]*jsonschema.Schema)
		for _, name := range []string{"blogs", "locations", "menu"} {
			data, err := schemaFS.ReadFile("schemas/" + name + ".schema.json")
			if err != nil {
				schemas.err = fmt.Errorf("read %s schema: %w", name, err)
				return
			}
			c := jsonschema.NewCompiler()
			c.Draft = jsonschema.Draft2020
			url := "https://eatery.schemas.local/" + name + ".schema.json"
			if err := c.AddResource(url, bytes.NewReader(data)); err != nil {
				schemas.err = fmt.Errorf("load %s schema: %w", name, err)
				return
			}
			compiled, err := c.Compile(url)
			if err != nil {
				schemas.err = fmt.Errorf("compile %s schema: %w", name, err)
				return
			}
			schemas.compiled[name] = compiled
		}
	})
	return schemas.compiled, schemas.err
}

// validateDocument checks raw JSON against the named content schema.
func validateDocument(name string, raw []byte) error {
	compiled, err := loadSchemas()
	if err != nil {
		return err
	}
	sch, ok := compiled[name]
	if !ok {
		return fmt.Errorf("no schema named %q", name)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%s: invalid json: %w", name, err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
