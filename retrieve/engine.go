// Package retrieve implements the multi-pass retrieval engine: initial
// vector search, optional query rewrite, graph-aware and section-aware
// expansion, provenance-tagged re-ranking, budgeted context assembly, and
// answer synthesis.
package retrieve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/webkb/webkb"
)

// Sentinels exchanged with the generation capability.
const (
	// NoChangeSentinel is returned by the rewrite prompt when the model
	// cannot improve the query.
	NoChangeSentinel = "NO_CHANGE"

	// NoAnswerSentinel is returned by the answer prompt when the context
	// is insufficient.
	NoAnswerSentinel = "NO_ANSWER"
)

// Fixed fallback answers. Retrieval insufficiency is an answer, not an
// error.
const (
	FallbackNoResults = "No information found for this question in the crawled site."
	FallbackNoAnswer  = "The crawled content does not contain an answer to this question."
)

// Expansion limits.
const (
	rewriteHintLimit = 8
	graphSeedLimit   = 12
	anchorsPerSeed   = 5
	sectionSeedLimit = 10
	expansionK       = 3

	// maxMemoryChars bounds prior-conversation text in the answer prompt.
	maxMemoryChars = 2000
)

// Engine answers questions against a populated vector store.
type Engine struct {
	Store     webkb.VectorStore
	Embedder  webkb.Embedder
	Generator webkb.Generator

	// Recrawl, when set, is invoked once per query if the initial pass
	// finds nothing, then the initial search is retried.
	Recrawl func(ctx context.Context) error

	Config webkb.RetrieveConfig
	Logger *slog.Logger
}

// Answer runs the retrieval passes for question and returns the final
// answer string. memory is optional prior-conversation text included in
// the answer prompt; pass "" for a standalone question.
func (e *Engine) Answer(ctx context.Context, question string, memory string) (string, error) {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return "", webkb.Errorf(webkb.EINVALID, "question required")
	}

	cfg := e.Config.WithDefaults()

	// Initial pass.
	initial, err := e.search(ctx, question, cfg.FirstPassK, webkb.OriginInitial)
	if err != nil {
		return "", err
	}
	if len(initial) == 0 && e.Recrawl != nil {
		logger.Info("no results found, triggering recrawl")
		if err := e.Recrawl(ctx); err != nil {
			return "", err
		}
		initial, err = e.search(ctx, question, cfg.FirstPassK, webkb.OriginInitial)
		if err != nil {
			return "", err
		}
	}
	if len(initial) == 0 {
		return FallbackNoResults, nil
	}

	tried := map[string]struct{}{question: {}}
	all := initial

	// Rewrite pass.
	if cfg.Rewrite {
		rewritten, err := e.rewriteQuery(ctx, question, initial)
		if err != nil {
			logger.Warn("query rewrite failed, continuing without it", "err", err)
		} else if rewritten != "" {
			if _, dup := tried[rewritten]; !dup {
				tried[rewritten] = struct{}{}
				logger.Debug("rewrote query", "rewritten", rewritten)
				results, err := e.search(ctx, rewritten, cfg.SecondPassK, webkb.OriginRewrite)
				if err != nil {
					return "", err
				}
				all = append(all, results...)
			}
		}
	}

	// Expansion passes seed off the direct results ranked by raw score.
	seeds := Rank(Merge(all), webkb.RetrieveConfig{})

	if cfg.GraphExpansion {
		results, err := e.expandGraph(ctx, question, seeds, tried)
		if err != nil {
			return "", err
		}
		all = append(all, results...)
	}

	if cfg.SectionExpansion {
		results, err := e.expandSections(ctx, question, seeds, tried)
		if err != nil {
			return "", err
		}
		all = append(all, results...)
	}

	ranked := Rank(Merge(all), cfg)
	assembled := AssembleContext(ranked, cfg.MaxContextChars)

	answer, err := e.Generator.Generate(ctx, buildAnswerPrompt(question, assembled.Text, memory))
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" || strings.Contains(answer, NoAnswerSentinel) {
		return FallbackNoAnswer, nil
	}

	return appendReadMore(answer, assembled.Sources), nil
}

// search embeds query, runs one store pass, and tags the results. Results
// below the configured minimum score are dropped here; the store itself
// never thresholds.
func (e *Engine) search(ctx context.Context, query string, k int, origin webkb.Origin) ([]webkb.RetrievalResult, error) {
	if k <= 0 {
		return nil, nil
	}
	vector, err := e.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	matches, err := e.Store.Search(vector, k)
	if err != nil {
		return nil, err
	}

	var results []webkb.RetrievalResult
	for i, match := range matches {
		if match.Score < e.Config.MinScore {
			continue
		}
		results = append(results, webkb.RetrievalResult{
			Chunk:   match.Chunk,
			Score:   match.Score,
			Origins: []webkb.Origin{origin},
			Rank:    i,
		})
	}
	return results, nil
}

// rewriteQuery asks the generation capability for a refined query, giving
// it short hints from the initial results' heading hierarchies and
// incoming-link anchors. Returns "" when the model declines to change the
// query.
func (e *Engine) rewriteQuery(ctx context.Context, question string, initial []webkb.RetrievalResult) (string, error) {
	hints := collectHints(initial, rewriteHintLimit)

	var sb strings.Builder
	sb.WriteString("Rewrite the following search query to better match the topics below. ")
	sb.WriteString("Reply with the improved query only, or with " + NoChangeSentinel + " if the query is already good.\n\n")
	fmt.Fprintf(&sb, "Query: %s\n", question)
	if len(hints) > 0 {
		fmt.Fprintf(&sb, "Topics: %s\n", strings.Join(hints, "; "))
	}

	reply, err := e.Generator.Generate(ctx, sb.String())
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" || strings.Contains(reply, NoChangeSentinel) {
		return "", nil
	}
	return reply, nil
}

// expandGraph re-queries using the anchor text of pages linking to the
// top seed results.
func (e *Engine) expandGraph(ctx context.Context, question string, seeds []webkb.RetrievalResult, tried map[string]struct{}) ([]webkb.RetrievalResult, error) {
	var results []webkb.RetrievalResult
	for i, seed := range seeds {
		if i >= graphSeedLimit {
			break
		}
		anchors := 0
		for _, link := range seed.Chunk.Metadata.IncomingLinks {
			if anchors >= anchorsPerSeed {
				break
			}
			anchor := strings.TrimSpace(link.Anchor)
			if anchor == "" {
				continue
			}
			anchors++

			composite := anchor + " " + question
			if _, dup := tried[composite]; dup {
				continue
			}
			tried[composite] = struct{}{}

			found, err := e.search(ctx, composite, expansionK, webkb.OriginGraphAnchor)
			if err != nil {
				return nil, err
			}
			results = append(results, found...)
		}
	}
	return results, nil
}

// expandSections re-queries using each top seed result's top-level
// heading to surface sibling content from the same document section.
func (e *Engine) expandSections(ctx context.Context, question string, seeds []webkb.RetrievalResult, tried map[string]struct{}) ([]webkb.RetrievalResult, error) {
	var results []webkb.RetrievalResult
	for i, seed := range seeds {
		if i >= sectionSeedLimit {
			break
		}
		// Heading-less chunks have no section to expand into.
		if len(seed.Chunk.Hierarchy) == 0 || seed.Chunk.Hierarchy[0] == "" {
			continue
		}
		heading := seed.Chunk.Hierarchy[0]

		composite := question + " " + heading
		if _, dup := tried[composite]; dup {
			continue
		}
		tried[composite] = struct{}{}

		found, err := e.search(ctx, composite, expansionK, webkb.OriginSection)
		if err != nil {
			return nil, err
		}
		results = append(results, found...)
	}
	return results, nil
}

// collectHints gathers up to limit distinct short strings from result
// heading hierarchies and incoming-link anchors, in rank order.
func collectHints(results []webkb.RetrievalResult, limit int) []string {
	seen := make(map[string]struct{})
	var hints []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || len(hints) >= limit {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		hints = append(hints, s)
	}

	for _, result := range results {
		for _, heading := range result.Chunk.Hierarchy {
			add(heading)
		}
		for _, link := range result.Chunk.Metadata.IncomingLinks {
			add(link.Anchor)
		}
		if len(hints) >= limit {
			break
		}
	}
	return hints
}

// buildAnswerPrompt renders the final synthesis prompt. The model must
// answer from the context alone and reply with the no-answer sentinel
// when the context is insufficient.
func buildAnswerPrompt(question, context, memory string) string {
	var sb strings.Builder
	sb.WriteString("Answer the question using only the context below. ")
	sb.WriteString("If the context does not contain the answer, reply with exactly " + NoAnswerSentinel + ".\n\n")
	if memory = strings.TrimSpace(memory); memory != "" {
		if len(memory) > maxMemoryChars {
			memory = memory[len(memory)-maxMemoryChars:]
		}
		sb.WriteString("Conversation so far:\n" + memory + "\n\n")
	}
	sb.WriteString("Context:\n" + context + "\n\n")
	sb.WriteString("Question: " + question)
	return sb.String()
}

// appendReadMore appends the read-more links for the sources that
// actually made it into the assembled context.
func appendReadMore(answer string, sources []string) string {
	if len(sources) == 0 {
		return answer
	}
	var sb strings.Builder
	sb.WriteString(answer)
	sb.WriteString("\n\nRead more:")
	for _, source := range sources {
		sb.WriteString("\n- " + source)
	}
	return sb.String()
}
