package textsplit

import (
	"math/rand"
	"sort"
)

// Sample selects the chunk indices that receive expensive enrichment
// (embedding plus conversation seeding). It draws min(maxSamples,
// chunkCount) indices uniformly without replacement from [0, chunkCount),
// then adds one more index from the first tenth of the document so the
// opening is always covered, and deduplicates.
//
// The result is sorted and its length is within [min(maxSamples,
// chunkCount), min(maxSamples, chunkCount)+1]. For any chunkCount > 0 at
// least one selected index lies below ceil(chunkCount/10).
func Sample(chunkCount, maxSamples int) []int {
	if chunkCount <= 0 || maxSamples <= 0 {
		return nil
	}

	n := maxSamples
	if chunkCount < n {
		n = chunkCount
	}

	picked := make(map[int]struct{}, n+1)
	for _, idx := range rand.Perm(chunkCount)[:n] {
		picked[idx] = struct{}{}
	}

	// Early-coverage draw: ceil(chunkCount/10), never below 1.
	early := (chunkCount + 9) / 10
	picked[rand.Intn(early)] = struct{}{}

	indices := make([]int, 0, len(picked))
	for idx := range picked {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}
