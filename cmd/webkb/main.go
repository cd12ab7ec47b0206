// Command webkb crawls a website into a queryable knowledge base and
// answers questions against it.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"github.com/webkb/webkb"
	"github.com/webkb/webkb/gemini"
	webkbhttp "github.com/webkb/webkb/http"
	"github.com/webkb/webkb/openai"
	webkbslog "github.com/webkb/webkb/slog"
	"github.com/webkb/webkb/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path and data directory. Set before calling Run().
	DBPath  string
	DataDir string

	// SQLite database used by the run catalog.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RunService webkb.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:  defaultDBPath(),
		DataDir: defaultDataDir(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// A .env file is optional; environment variables win either way.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Logger:  logger,
		DataDir: m.DataDir,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webkb"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'webkb --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set WEBKB_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.RunService = sqlite.NewRunService(m.DB)
	deps.Runs = m.RunService
	deps.Sitemaps = webkbslog.NewLoggingSitemapService(webkbhttp.NewSitemapService(nil), logger)

	return kongCtx.Run(deps)
}

// newEmbedder builds the embedding client for the chosen provider.
func newEmbedder(ctx context.Context, provider, model string) (webkb.Embedder, error) {
	switch provider {
	case "openai":
		return openai.NewEmbedder(os.Getenv("OPENAI_API_KEY"), model)
	case "gemini":
		client, err := newGeminiClient(ctx)
		if err != nil {
			return nil, err
		}
		return gemini.NewEmbedder(client, model), nil
	default:
		return nil, webkb.Errorf(webkb.EINVALID, "unknown provider %q (want openai or gemini)", provider)
	}
}

// newGenerator builds the generation client for the chosen provider.
func newGenerator(ctx context.Context, provider, model string) (webkb.Generator, error) {
	switch provider {
	case "openai":
		return openai.NewGenerator(os.Getenv("OPENAI_API_KEY"), model)
	case "gemini":
		client, err := newGeminiClient(ctx)
		if err != nil {
			return nil, err
		}
		return gemini.NewGenerator(client, model), nil
	default:
		return nil, webkb.Errorf(webkb.EINVALID, "unknown provider %q (want openai or gemini)", provider)
	}
}

func newGeminiClient(ctx context.Context) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, webkb.Errorf(webkb.EINVALID, "GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

func logLevel() slog.Level {
	if os.Getenv("WEBKB_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func defaultDBPath() string {
	if path := os.Getenv("WEBKB_DB"); path != "" {
		return path
	}
	return filepath.Join(defaultDataDir(), "webkb.db")
}

func defaultDataDir() string {
	if dir := os.Getenv("WEBKB_DATA"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".webkb"
	}
	dir := filepath.Join(home, ".webkb")
	_ = os.MkdirAll(dir, 0o755)
	return dir
}
