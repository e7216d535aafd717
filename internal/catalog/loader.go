package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/casevault/backend/internal/domain"
)

// catalogFile mirrors the on-disk shape of configs/cases.json.
type catalogFile struct {
	Cases []domain.Case `json:"cases"`
}

// LoadFile reads a catalog definition from disk and validates every
// case in it. A single invalid case rejects the whole file so a bad
// deploy never partially publishes.
func LoadFile(path string) ([]domain.Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", domain.ErrMsgCatalogLoad, err)
	}

	var f catalogFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", domain.ErrMsgCatalogLoad, err)
	}
	if len(f.Cases) == 0 {
		return nil, fmt.Errorf("%s: no cases defined in %s", domain.ErrMsgCatalogLoad, path)
	}

	for i := range f.Cases {
		if err := Validate(&f.Cases[i]); err != nil {
			return nil, err
		}
	}

	return f.Cases, nil
}
