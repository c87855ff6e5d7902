// internal/source/source.go
package source

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/newthinker/btview/internal/backtest"
	"github.com/newthinker/btview/internal/core"
)

// Source reads saved engine responses. Sources are read-only.
type Source interface {
	// Read retrieves the object at the given path
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all object paths under the prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists checks whether an object exists at the given path
	Exists(ctx context.Context, path string) (bool, error)
}

// Load reads and decodes a saved engine response or bare result
func Load(ctx context.Context, src Source, p string) (*backtest.Decoded, error) {
	ok, err := src.Exists(ctx, p)
	if err != nil {
		return nil, core.WrapError(core.ErrSourceFailed, err)
	}
	if !ok {
		return nil, core.WrapError(core.ErrNotFound, fmt.Errorf("no result at %q", p))
	}

	data, err := src.Read(ctx, p)
	if err != nil {
		return nil, core.WrapError(core.ErrSourceFailed, err)
	}

	return backtest.DecodeResponse(data)
}

// ListResults returns the JSON objects under prefix
func ListResults(ctx context.Context, src Source, prefix string) ([]string, error) {
	paths, err := src.List(ctx, prefix)
	if err != nil {
		return nil, core.WrapError(core.ErrSourceFailed, err)
	}

	result := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.EqualFold(path.Ext(p), ".json") {
			result = append(result, p)
		}
	}
	return result, nil
}
