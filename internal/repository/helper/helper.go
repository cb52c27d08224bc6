package helper

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// NonblockingWrite is a generic function that can write any type of event to any channel type.
// T is the type parameter for the event.
func NonblockingWrite[T any](ctx context.Context, timeout time.Duration, ch chan<- T, event T) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ParseEmbedding converts the stored representation of a vector column into floats.
// Vector columns come back as "[0.1,0.2]" text from SQL and REST, and as arrays from documents.
func ParseEmbedding(v any) ([]float32, error) {
	switch t := v.(type) {
	case nil:
		return nil, fmt.Errorf("parse embedding: empty value")
	case []float32:
		return t, nil
	case []float64:
		out := make([]float32, len(t))
		for i, f := range t {
			out[i] = float32(f)
		}
		return out, nil
	case []any:
		out := make([]float32, 0, len(t))
		for _, item := range t {
			switch n := item.(type) {
			case float64:
				out = append(out, float32(n))
			case int64:
				out = append(out, float32(n))
			default:
				return nil, fmt.Errorf("parse embedding: unexpected element %T", item)
			}
		}
		return out, nil
	case []byte:
		return ParseEmbedding(string(t))
	case string:
		out := []float32{}
		if err := json.Unmarshal([]byte(t), &out); err != nil {
			return nil, fmt.Errorf("parse embedding: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("parse embedding: unexpected type %T", v)
	}
}
