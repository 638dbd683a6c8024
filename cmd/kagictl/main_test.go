package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"kagi-go/internal/app"
	"kagi-go/internal/config"
	"kagi-go/internal/kagitest"
	"kagi-go/kagi"
)

func newTestDeps(api app.API) app.Deps {
	return app.Deps{
		API: api,
		Config: config.Config{
			APIBase: "https://kagi.com/api",
		},
		Log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		setup       func(*app.MockAPI)
		wantErr     bool
		checkOutput func(*testing.T, string)
	}{
		{
			name: "fastgpt prints the answer",
			args: []string{"fastgpt", "what", "is", "go"},
			setup: func(m *app.MockAPI) {
				m.On("FastGPT", mock.Anything, kagi.FastGPTRequest{Query: "what is go"}).
					Return(&kagi.FastGPTResponse{
						Response: kagi.Response{ID: "res-1", Node: "us-east", APIBalance: 4.5},
						Output:   "Go is a programming language.",
						Tokens:   12,
						References: []kagi.Reference{
							{Title: "The Go Programming Language", Snippet: "…", URL: "https://go.dev"},
						},
					}, nil).Once()
			},
			checkOutput: func(t *testing.T, out string) {
				if !strings.Contains(out, "Go is a programming language.") {
					t.Errorf("expected the answer in output, got: %s", out)
				}
				if !strings.Contains(out, "https://go.dev") {
					t.Errorf("expected references in output, got: %s", out)
				}
			},
		},
		{
			name: "fastgpt no-cache disables caching",
			args: []string{"fastgpt", "-no-cache", "fresh question"},
			setup: func(m *app.MockAPI) {
				m.On("FastGPT", mock.Anything, mock.MatchedBy(func(req kagi.FastGPTRequest) bool {
					return req.Query == "fresh question" && req.Cache != nil && !*req.Cache
				})).Return(&kagi.FastGPTResponse{}, nil).Once()
			},
		},
		{
			name:    "fastgpt without a query fails",
			args:    []string{"fastgpt"},
			wantErr: true,
		},
		{
			name: "enrich defaults to the web index",
			args: []string{"enrich", "steve jobs"},
			setup: func(m *app.MockAPI) {
				m.On("EnrichWeb", mock.Anything, "steve jobs").
					Return(&kagi.EnrichResponse{
						Response: kagi.Response{ID: "res-2", Node: "us-east"},
						Results: []kagi.SearchResult{
							{Rank: 0, Title: "Steve Jobs", URL: "https://example.com", Snippet: "…"},
						},
					}, nil).Once()
			},
			checkOutput: func(t *testing.T, out string) {
				if !strings.Contains(out, `"results"`) {
					t.Errorf("expected results in output, got: %s", out)
				}
			},
		},
		{
			name: "enrich news uses the news index",
			args: []string{"enrich", "-source", "news", "golang"},
			setup: func(m *app.MockAPI) {
				m.On("EnrichNews", mock.Anything, "golang").
					Return(&kagi.EnrichResponse{}, nil).Once()
			},
		},
		{
			name:    "enrich rejects unknown sources",
			args:    []string{"enrich", "-source", "blogs", "golang"},
			wantErr: true,
		},
		{
			name:    "enrich without a query fails",
			args:    []string{"enrich"},
			wantErr: true,
		},
		{
			name: "summarize builds the request from flags",
			args: []string{"summarize", "-url", "https://go.dev", "-engine", "muriel", "-type", "takeaway"},
			setup: func(m *app.MockAPI) {
				m.On("Summarize", mock.Anything, kagi.SummarizeRequest{
					URL:         "https://go.dev",
					Engine:      kagi.EngineMuriel,
					SummaryType: kagi.SummaryTypeTakeaway,
				}).Return(&kagi.SummarizeResponse{
					Response: kagi.Response{ID: "res-3", Node: "us-east"},
					Tokens:   57,
					Output:   "A summary.",
				}, nil).Once()
			},
			checkOutput: func(t *testing.T, out string) {
				if !strings.Contains(out, "A summary.") {
					t.Errorf("expected the summary in output, got: %s", out)
				}
			},
		},
		{
			name: "summarize surfaces API errors",
			args: []string{"summarize", "-url", "https://go.dev"},
			setup: func(m *app.MockAPI) {
				m.On("Summarize", mock.Anything, mock.Anything).
					Return(nil, &kagi.RequestError{Endpoint: "/v0/summarize", Status: 500}).Once()
			},
			wantErr: true,
		},
		{
			name: "balance reports the account balance",
			args: []string{"balance"},
			setup: func(m *app.MockAPI) {
				m.On("FastGPT", mock.Anything, kagi.FastGPTRequest{Query: "ping"}).
					Return(&kagi.FastGPTResponse{
						Response: kagi.Response{ID: "res-4", Node: "us-east", APIBalance: 12.5},
					}, nil).Once()
			},
			checkOutput: func(t *testing.T, out string) {
				if !strings.Contains(out, "12.5") {
					t.Errorf("expected the balance in output, got: %s", out)
				}
			},
		},
		{
			name:    "unknown command fails",
			args:    []string{"teleport"},
			wantErr: true,
		},
		{
			name:    "missing command fails",
			args:    nil,
			wantErr: true,
		},
		{
			name: "help prints usage",
			args: []string{"help"},
			checkOutput: func(t *testing.T, out string) {
				if !strings.Contains(out, "Usage:") {
					t.Errorf("expected usage text, got: %s", out)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAPI := new(app.MockAPI)
			if tt.setup != nil {
				tt.setup(mockAPI)
			}

			var buf bytes.Buffer
			err := run(context.Background(), newTestDeps(mockAPI), &buf, io.Discard, tt.args)

			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if tt.checkOutput != nil {
				tt.checkOutput(t, buf.String())
			}

			mockAPI.AssertExpectations(t)
		})
	}
}

func TestUsageGoesToStderrOnError(t *testing.T) {
	for _, args := range [][]string{nil, {"teleport"}} {
		var out, errOut bytes.Buffer

		if err := run(context.Background(), newTestDeps(new(app.MockAPI)), &out, &errOut, args); err == nil {
			t.Fatalf("expected an error for args %v", args)
		}
		if out.Len() != 0 {
			t.Errorf("stdout should stay clean on errors, got: %s", out.String())
		}
		if !strings.Contains(errOut.String(), "Usage:") {
			t.Errorf("expected usage on stderr, got: %s", errOut.String())
		}
	}
}

func TestRunAgainstFakeAPI(t *testing.T) {
	srv := kagitest.New(t)
	client, err := kagi.NewClient(srv.Token, kagi.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	deps := newTestDeps(client)
	ctx := context.Background()

	var buf bytes.Buffer
	if err := run(ctx, deps, &buf, io.Discard, []string{"enrich", "-source", "news", "golang"}); err != nil {
		t.Fatalf("run enrich: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, srv.Node) {
		t.Errorf("expected output to report node %q, got: %s", srv.Node, out)
	}

	buf.Reset()
	if err := run(ctx, deps, &buf, io.Discard, []string{"summarize", "-url", "https://go.dev"}); err != nil {
		t.Fatalf("run summarize: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, `"output"`) {
		t.Errorf("expected a summary in output, got: %s", out)
	}
}
