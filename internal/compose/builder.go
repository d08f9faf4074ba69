package compose

import (
	"math/rand"
	"sort"
	"time"

	"clipgrep/internal/search"
)

// Composition is the final ordered cut: clips sorted by start as produced,
// with no two consecutive same-file clips overlapping in time, and every
// start at or above zero.
type Composition struct {
	Clips []search.Match
}

// Duration sums the clip lengths in seconds.
func (c Composition) Duration() float64 {
	var total float64
	for _, clip := range c.Clips {
		total += clip.End - clip.Start
	}
	return total
}

// Files returns the distinct source files in first-appearance order.
func (c Composition) Files() []string {
	seen := make(map[string]struct{})
	var files []string
	for _, clip := range c.Clips {
		if _, ok := seen[clip.File]; ok {
			continue
		}
		seen[clip.File] = struct{}{}
		files = append(files, clip.File)
	}
	return files
}

// Options controls composition building.
type Options struct {
	// Padding expands each match symmetrically, in seconds.
	Padding float64
	// Resync shifts each match by a constant offset to correct systematic
	// transcript drift. May be negative.
	Resync float64
	// Randomize shuffles the merged clips for remix-style output.
	Randomize bool
	// MaxClips truncates the final list when positive.
	MaxClips int
	// Rand drives shuffling; nil means a time-seeded source.
	Rand *rand.Rand
}

// Build assembles a composition from matches. The input is not mutated.
//
// Order of operations: pad and resync each copied match (clamping to zero),
// sort by start, merge same-file clips that touch or overlap in one greedy
// pass, then shuffle if requested, then apply the clip limit. Shuffling
// happens only after merging; the merge pass relies on same-file adjacency
// in the sorted order. The merge is idempotent: running it on its own output
// changes nothing.
func Build(matches []search.Match, opts Options) Composition {
	clips := make([]search.Match, len(matches))
	copy(clips, matches)

	for i := range clips {
		clips[i].Start -= opts.Padding
		clips[i].End += opts.Padding
		clips[i].Start += opts.Resync
		clips[i].End += opts.Resync
		if clips[i].Start < 0 {
			clips[i].Start = 0
		}
		if clips[i].End < 0 {
			clips[i].End = 0
		}
	}

	clips = mergeOverlaps(clips)

	if opts.Randomize {
		rng := opts.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		rng.Shuffle(len(clips), func(i, j int) {
			clips[i], clips[j] = clips[j], clips[i]
		})
	}

	if opts.MaxClips > 0 && len(clips) > opts.MaxClips {
		clips = clips[:opts.MaxClips]
	}

	return Composition{Clips: clips}
}

// mergeOverlaps sorts by start and merges each clip into its predecessor
// when both share a file and the predecessor's end reaches the clip's start.
// The pass is deliberately non-transitive: only directly adjacent entries in
// the sorted order merge.
func mergeOverlaps(clips []search.Match) []search.Match {
	if len(clips) == 0 {
		return clips
	}
	sort.SliceStable(clips, func(i, j int) bool {
		return clips[i].Start < clips[j].Start
	})

	merged := clips[:1]
	for _, clip := range clips[1:] {
		previous := &merged[len(merged)-1]
		if previous.File == clip.File && previous.End >= clip.Start {
			if clip.End > previous.End {
				previous.End = clip.End
			}
			continue
		}
		merged = append(merged, clip)
	}
	return merged
}

// DefaultPadding returns the padding policy for a search strategy when the
// caller does not pass one: word-level strategies get a small positive pad
// to smooth abrupt word boundaries, mash a smaller one to keep single-word
// clips apart, and sentence/semantic zero since segment timing already
// includes natural breathing room.
func DefaultPadding(searchType search.Type, fragmentPad, mashPad float64) float64 {
	switch searchType {
	case search.TypeFragment:
		return fragmentPad
	case search.TypeMash:
		return mashPad
	default:
		return 0
	}
}
