// Package compose turns raw search matches into a renderable composition:
// an ordered, same-file-overlap-free sequence of clips. Matches are copied
// before padding and resync mutate timestamps, merged with a single greedy
// pass, optionally shuffled for remix output, and truncated to a clip limit.
package compose
