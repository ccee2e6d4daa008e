package search

// Partition splits candidates into min(threads, len(candidates)) contiguous
// chunks of near-equal size. The first len%k chunks carry one extra item.
// threads <= 1 yields a single chunk; an empty input yields none.
func Partition(candidates []string, threads int) []Chunk {
	n := len(candidates)
	if n == 0 {
		return nil
	}
	k := threads
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}

	chunks := make([]Chunk, 0, k)
	size, extra := n/k, n%k
	start := 0
	for i := 0; i < k; i++ {
		end := start + size
		if i < extra {
			end++
		}
		chunks = append(chunks, Chunk{Start: start, Items: candidates[start:end]})
		start = end
	}
	return chunks
}
