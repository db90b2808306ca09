package summarize

import (
	"iter"
	"slices"
)

// DefaultBatchSize is the number of sentences sent to the scorer per call.
const DefaultBatchSize = 16

// Batches yields contiguous sub-slices of items, each of length at most size,
// covering items exactly once in order. The last batch may be shorter.
// Batches are produced lazily; a size below 1 is treated as DefaultBatchSize.
func Batches(items []string, size int) iter.Seq[[]string] {
	if size < 1 {
		size = DefaultBatchSize
	}
	return slices.Chunk(items, size)
}
