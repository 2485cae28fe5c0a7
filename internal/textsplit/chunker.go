// Package textsplit turns extracted document text into the ordered chunk
// sequence the ingestion pipeline persists, and picks which chunks get the
// expensive downstream enrichment.
package textsplit

// Split slices text into contiguous, non-overlapping chunks of at most
// size bytes, in order. The final chunk may be shorter. Empty text yields
// no chunks, which downstream treats as a valid document.
//
// size must be positive; a non-positive size is a programming error.
func Split(text string, size int) []string {
	if size <= 0 {
		panic("textsplit: chunk size must be positive")
	}
	if len(text) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(text)+size-1)/size)
	for i := 0; i < len(text); i += size {
		end := i + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[i:end])
	}
	return chunks
}
