package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"kagi-go/internal/app"
	"kagi-go/kagi"
)

type reference struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

type result struct {
	Rank      int    `json:"rank"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Snippet   string `json:"snippet"`
	Published string `json:"published"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	if err := run(context.Background(), deps, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		deps.Log.Error("command failed", "err", err)
		os.Exit(1)
	}
}

// run dispatches to a subcommand. Command output goes to out; usage on
// error paths goes to errOut so out stays parseable.
func run(ctx context.Context, deps app.Deps, out, errOut io.Writer, args []string) error {
	if len(args) == 0 {
		usage(errOut)
		return fmt.Errorf("missing command")
	}
	switch args[0] {
	case "fastgpt":
		return cmdFastGPT(ctx, deps, out, args[1:])
	case "enrich":
		return cmdEnrich(ctx, deps, out, args[1:])
	case "summarize":
		return cmdSummarize(ctx, deps, out, args[1:])
	case "balance":
		return cmdBalance(ctx, deps, out)
	case "help", "-h", "--help":
		usage(out)
		return nil
	default:
		usage(errOut)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func usage(out io.Writer) {
	fmt.Fprintln(out, `kagictl talks to the Kagi API.

Usage:
  kagictl fastgpt   [flags] <query>    answer a question with web context
  kagictl enrich    [flags] <query>    search the non-commercial indexes
  kagictl summarize [flags]            summarize a page or raw text
  kagictl balance                      report the remaining API balance

Env:
  KAGI_API_KEY    Your Kagi API token (a .env file is also read)
  KAGI_API_BASE   Override the API base URL`)
}

func cmdFastGPT(ctx context.Context, deps app.Deps, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("fastgpt", flag.ContinueOnError)
	noCache := fs.Bool("no-cache", false, "bypass cached answers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		return fmt.Errorf("usage: kagictl fastgpt [flags] <query>")
	}

	req := kagi.FastGPTRequest{Query: query}
	if *noCache {
		req.Cache = kagi.Bool(false)
	}
	res, err := deps.API.FastGPT(ctx, req)
	if err != nil {
		return err
	}

	refs := make([]reference, len(res.References))
	for i, ref := range res.References {
		refs[i] = reference{Title: ref.Title, Snippet: ref.Snippet, URL: ref.URL}
	}
	return printJSON(out, map[string]any{
		"id":          res.ID,
		"node":        res.Node,
		"duration_ms": res.Duration.Milliseconds(),
		"api_balance": res.APIBalance,
		"output":      res.Output,
		"tokens":      res.Tokens,
		"references":  refs,
	})
}

func cmdEnrich(ctx context.Context, deps app.Deps, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("enrich", flag.ContinueOnError)
	source := fs.String("source", "web", `index to search: "web" or "news"`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		return fmt.Errorf("usage: kagictl enrich [flags] <query>")
	}

	var (
		res *kagi.EnrichResponse
		err error
	)
	switch *source {
	case "web":
		res, err = deps.API.EnrichWeb(ctx, query)
	case "news":
		res, err = deps.API.EnrichNews(ctx, query)
	default:
		return fmt.Errorf("invalid -source: %s (valid options: web, news)", *source)
	}
	if err != nil {
		return err
	}

	rows := make([]result, len(res.Results))
	for i, r := range res.Results {
		rows[i] = result{
			Rank:      r.Rank,
			Title:     r.Title,
			URL:       r.URL,
			Snippet:   r.Snippet,
			Published: r.Published.Format(time.RFC3339),
		}
	}
	return printJSON(out, map[string]any{
		"id":          res.ID,
		"node":        res.Node,
		"duration_ms": res.Duration.Milliseconds(),
		"api_balance": res.APIBalance,
		"results":     rows,
	})
}

func cmdSummarize(ctx context.Context, deps app.Deps, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("summarize", flag.ContinueOnError)
	urlFlag := fs.String("url", "", "address of the document to summarize")
	text := fs.String("text", "", "raw text to summarize")
	engine := fs.String("engine", "", `summarization engine: "cecil", "agnes", "daphne" or "muriel"`)
	summaryType := fs.String("type", "", `summary form: "summary" or "takeaway"`)
	lang := fs.String("lang", "", `target language code, e.g. "EN"`)
	noCache := fs.Bool("no-cache", false, "bypass cached summaries")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := kagi.SummarizeRequest{
		URL:            *urlFlag,
		Text:           *text,
		Engine:         kagi.SummarizationEngine(*engine),
		SummaryType:    kagi.SummaryType(*summaryType),
		TargetLanguage: *lang,
	}
	if *noCache {
		req.Cache = kagi.Bool(false)
	}
	res, err := deps.API.Summarize(ctx, req)
	if err != nil {
		return err
	}

	return printJSON(out, map[string]any{
		"id":          res.ID,
		"node":        res.Node,
		"duration_ms": res.Duration.Milliseconds(),
		"api_balance": res.APIBalance,
		"output":      res.Output,
		"tokens":      res.Tokens,
	})
}

// cmdBalance reports the remaining account balance. The API has no
// dedicated balance endpoint; every envelope carries it, so the cheapest
// cached call is issued and only its metadata is shown.
func cmdBalance(ctx context.Context, deps app.Deps, out io.Writer) error {
	res, err := deps.API.FastGPT(ctx, kagi.FastGPTRequest{Query: "ping"})
	if err != nil {
		return err
	}
	return printJSON(out, map[string]any{"api_balance": res.APIBalance})
}

// printJSON writes indented JSON so command output is pleasant to read
// and still parseable.
func printJSON(out io.Writer, body any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(body)
}
