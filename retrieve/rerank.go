package retrieve

import (
	"sort"

	"github.com/webkb/webkb"
)

// Merge unions results from all search passes by chunk identity. A chunk
// seen by several passes keeps its highest raw score, the union of its
// origin tags, and its best (lowest) per-pass rank. Output preserves
// first-appearance order.
func Merge(results []webkb.RetrievalResult) []webkb.RetrievalResult {
	index := make(map[string]int)
	var merged []webkb.RetrievalResult

	for _, result := range results {
		key := result.Chunk.Key()
		i, ok := index[key]
		if !ok {
			index[key] = len(merged)
			merged = append(merged, result)
			continue
		}

		if result.Score > merged[i].Score {
			merged[i].Score = result.Score
		}
		if result.Rank < merged[i].Rank {
			merged[i].Rank = result.Rank
		}
		for _, origin := range result.Origins {
			merged[i].AddOrigin(origin)
		}
	}

	return merged
}

// Rank orders merged results and truncates them to cfg.MaxCandidates.
//
// The ranking key is the raw score plus expansion boosts, but a boost is
// only earned when an expansion pass corroborates a direct hit: a chunk
// found solely by graph or section expansion ranks on its raw score, so
// at equal raw score a direct result always comes first via the origin
// priority tiebreak.
func Rank(results []webkb.RetrievalResult, cfg webkb.RetrieveConfig) []webkb.RetrievalResult {
	ranked := make([]webkb.RetrievalResult, len(results))
	copy(ranked, results)

	adjusted := func(r webkb.RetrievalResult) float32 {
		score := r.Score
		if !hasDirect(r) {
			return score
		}
		if r.HasOrigin(webkb.OriginGraphAnchor) {
			score += cfg.AnchorBoost
		}
		if r.HasOrigin(webkb.OriginSection) {
			score += cfg.SectionBoost
		}
		return score
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := adjusted(ranked[i]), adjusted(ranked[j])
		if si != sj {
			return si > sj
		}
		di, dj := hasDirect(ranked[i]), hasDirect(ranked[j])
		if di != dj {
			return di
		}
		return ranked[i].Rank < ranked[j].Rank
	})

	if cfg.MaxCandidates > 0 && len(ranked) > cfg.MaxCandidates {
		ranked = ranked[:cfg.MaxCandidates]
	}
	return ranked
}

// hasDirect reports whether the result was found by a direct search pass
// (initial or rewrite) rather than only by expansion.
func hasDirect(r webkb.RetrievalResult) bool {
	for _, origin := range r.Origins {
		if origin.Direct() {
			return true
		}
	}
	return false
}
