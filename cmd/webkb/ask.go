package main

import (
	"context"
	"fmt"

	"github.com/webkb/webkb"
	"github.com/webkb/webkb/flat"
	"github.com/webkb/webkb/retrieve"
	webkbslog "github.com/webkb/webkb/slog"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	crawlCfg, retrieveCfg, err := loadConfig(c.Config)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webkb.ErrorMessage(err))
		return err
	}

	embedder, err := newEmbedder(deps.Ctx, c.Provider, "")
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webkb.ErrorMessage(err))
		return err
	}
	generator, err := newGenerator(deps.Ctx, c.Provider, c.Model)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webkb.ErrorMessage(err))
		return err
	}

	store := webkbslog.NewLoggingVectorStore(flat.NewStore(), deps.Logger)
	if err := store.Load(deps.indexDir()); err != nil {
		if webkb.ErrorCode(err) == webkb.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "No index found at %s. Run: webkb crawl, then webkb index\n", deps.indexDir())
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", webkb.ErrorMessage(err))
		}
		return err
	}

	engine := &retrieve.Engine{
		Store:     store,
		Embedder:  embedder,
		Generator: generator,
		Config:    retrieveCfg,
		Logger:    deps.Logger,
	}
	if c.Recrawl {
		engine.Recrawl = func(ctx context.Context) error {
			if _, _, err := runCrawl(deps, crawlCfg, false, newTextExtractor("")); err != nil {
				return err
			}
			if _, err := runIndex(deps, embedder, 0); err != nil {
				return err
			}
			return store.Load(deps.indexDir())
		}
	}

	answer, err := engine.Answer(deps.Ctx, c.Question, "")
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webkb.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}
