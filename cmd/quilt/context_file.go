package main

import (
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"

	"quilt/internal/token"
)

// loadContextFile reads a TOML context file into an evaluation context.
// Each top-level key becomes a context key; values may be strings,
// numbers, booleans, or arrays of those.
func loadContextFile(path string) (*token.Context, error) {
	raw := make(map[string]any)
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("context file %s: %w", path, err)
	}

	ctx := token.NewContext()
	for key, value := range raw {
		values, err := contextValues(value)
		if err != nil {
			return nil, fmt.Errorf("context file %s: key %q: %w", path, key, err)
		}
		ctx.Set(key, values...)
	}
	return ctx, nil
}

func contextValues(value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case int64:
		return []string{strconv.FormatInt(v, 10)}, nil
	case float64:
		return []string{strconv.FormatFloat(v, 'f', -1, 64)}, nil
	case bool:
		return []string{strconv.FormatBool(v)}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			sub, err := contextValues(item)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}
