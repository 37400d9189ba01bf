package sequenceRepo

import "context"

// SequenceRepository hands out monotonic, unique integers per counter
// name. Used for booking and transaction numbers.
type SequenceRepository interface {
	Next(ctx context.Context, counterName string) (int64, error)
}
