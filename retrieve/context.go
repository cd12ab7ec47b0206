package retrieve

import (
	"strings"
	"unicode/utf8"

	"github.com/webkb/webkb"
)

// groupSeparator joins section blocks in the assembled context.
const groupSeparator = "\n\n---\n\n"

// AssembleContext renders ranked results into a section-grouped context
// string within a character budget.
//
// Chunks are grouped by top-level heading in first-appearance order; each
// group opens with one "[Heading]" line and lists its chunks in rank
// order, each followed by a source attribution. When a chunk would
// overflow the budget its fitting prefix is appended and assembly stops.
// The function is pure: the same results and budget always produce
// byte-identical output.
func AssembleContext(results []webkb.RetrievalResult, maxChars int) webkb.AssembledContext {
	type group struct {
		heading string
		results []webkb.RetrievalResult
	}

	groupIndex := make(map[string]int)
	var groups []group
	seen := make(map[string]struct{})

	for _, result := range results {
		key := result.Chunk.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		heading := result.Chunk.TopHeading()
		i, ok := groupIndex[heading]
		if !ok {
			i = len(groups)
			groupIndex[heading] = i
			groups = append(groups, group{heading: heading})
		}
		groups[i].results = append(groups[i].results, result)
	}

	var sb strings.Builder
	var assembled webkb.AssembledContext
	sourceSeen := make(map[string]struct{})
	remaining := maxChars

	appendPiece := func(piece string) bool {
		if len(piece) <= remaining {
			sb.WriteString(piece)
			remaining -= len(piece)
			return true
		}
		if remaining > 0 {
			// Back off to a rune boundary so the prefix stays valid UTF-8.
			cut := remaining
			for cut > 0 && !utf8.RuneStart(piece[cut]) {
				cut--
			}
			sb.WriteString(piece[:cut])
			remaining = 0
		}
		return false
	}

	record := func(chunk *webkb.Chunk) {
		assembled.ChunkIDs = append(assembled.ChunkIDs, chunk.Key())
		if _, ok := sourceSeen[chunk.URL]; !ok {
			sourceSeen[chunk.URL] = struct{}{}
			assembled.Sources = append(assembled.Sources, chunk.URL)
		}
	}

	full := true
	for gi, g := range groups {
		if !full {
			break
		}
		for ci, result := range g.results {
			chunk := result.Chunk

			var piece strings.Builder
			if ci == 0 {
				if gi > 0 {
					piece.WriteString(groupSeparator)
				}
				piece.WriteString("[" + g.heading + "]\n")
			} else {
				piece.WriteString("\n\n")
			}
			piece.WriteString(chunk.Text)
			piece.WriteString("\n\n(Source: " + chunk.URL + ")")

			wrote := sb.Len()
			full = appendPiece(piece.String())
			if sb.Len() > wrote {
				record(chunk)
			}
			if !full {
				break
			}
		}
	}

	assembled.Text = sb.String()
	return assembled
}
