package catalog

import (
	_ "embed"
	"fmt"
)

//go:embed builtin/catalog.json
var builtinCatalog []byte

// LoadBuiltin returns the catalog bundled with mailassist.
func LoadBuiltin() (*Catalog, error) {
	cat, err := Parse(builtinCatalog)
	if err != nil {
		return nil, &LoadError{Source: SourceBuiltin, Err: fmt.Errorf("parse builtin catalog: %w", err)}
	}
	cat.Source = SourceBuiltin
	return cat, nil
}
