package kagi

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// Reference is one web page that was provided as context to a FastGPT
// answer.
type Reference struct {
	// Title is the <title> of the reference.
	Title string
	// Snippet is a short blurb of text describing the reference.
	Snippet string
	// URL is the address of the reference.
	URL string
}

// Response carries the envelope metadata the API attaches to every
// payload.
type Response struct {
	// ID is the unique id of the API response.
	ID string
	// Node is the region the response was served from.
	Node string
	// Duration is how long the request took to process.
	Duration time.Duration
	// APIBalance is the remaining account balance in dollars.
	APIBalance float64
}

// FastGPTResponse is the answer produced by Client.FastGPT.
type FastGPTResponse struct {
	Response

	// Output is the generated answer.
	Output string
	// Tokens is the number of tokens in the response.
	Tokens int
	// References lists the web pages given to the model as context.
	References []Reference
}

// SearchResult is one row of an enrichment response.
type SearchResult struct {
	// T is an undocumented field of unknown purpose.
	T int
	// Rank orders the results; 0 is the most relevant.
	Rank int
	// URL is the address of the result.
	URL string
	// Title is the <title> of the page referenced.
	Title string
	// Snippet is a short blurb of text describing the result.
	Snippet string
	// Published is the self-reported publication date of the result.
	Published time.Time
}

// EnrichResponse is the result of Client.EnrichWeb or Client.EnrichNews.
type EnrichResponse struct {
	Response

	Results []SearchResult
}

// SummarizeResponse is the summary produced by Client.Summarize.
type SummarizeResponse struct {
	Response

	// Tokens is the number of tokens in the response.
	Tokens int
	// Output is the summary text.
	Output string
}

// parseMeta extracts the envelope metadata every API response carries.
func parseMeta(body []byte) (Response, error) {
	meta := gjson.GetBytes(body, "meta")
	if !meta.IsObject() {
		return Response{}, &ParseError{Path: "meta", Reason: "expected an object"}
	}
	id, err := fieldString(meta, "meta", "id")
	if err != nil {
		return Response{}, err
	}
	node, err := fieldString(meta, "meta", "node")
	if err != nil {
		return Response{}, err
	}
	ms, err := fieldInt(meta, "meta", "ms")
	if err != nil {
		return Response{}, err
	}
	if ms < 0 {
		return Response{}, &ParseError{Path: "meta.ms", Reason: "negative duration"}
	}
	balance, err := fieldFloat(meta, "meta", "api_balance")
	if err != nil {
		return Response{}, err
	}
	return Response{
		ID:         id,
		Node:       node,
		Duration:   time.Duration(ms) * time.Millisecond,
		APIBalance: balance,
	}, nil
}

func parseFastGPT(body []byte) (*FastGPTResponse, error) {
	meta, err := parseMeta(body)
	if err != nil {
		return nil, err
	}
	data := gjson.GetBytes(body, "data")
	if !data.IsObject() {
		return nil, &ParseError{Path: "data", Reason: "expected an object"}
	}
	output, err := fieldString(data, "data", "output")
	if err != nil {
		return nil, err
	}
	tokens, err := fieldInt(data, "data", "tokens")
	if err != nil {
		return nil, err
	}
	refs := data.Get("references")
	if !refs.IsArray() {
		return nil, &ParseError{Path: "data.references", Reason: "expected an array"}
	}
	rows := refs.Array()
	references := make([]Reference, 0, len(rows))
	for i, row := range rows {
		base := fmt.Sprintf("data.references.%d", i)
		if !row.IsObject() {
			return nil, &ParseError{Path: base, Reason: "expected an object"}
		}
		title, err := fieldString(row, base, "title")
		if err != nil {
			return nil, err
		}
		snippet, err := fieldString(row, base, "snippet")
		if err != nil {
			return nil, err
		}
		url, err := fieldString(row, base, "url")
		if err != nil {
			return nil, err
		}
		references = append(references, Reference{Title: title, Snippet: snippet, URL: url})
	}
	return &FastGPTResponse{
		Response:   meta,
		Output:     output,
		Tokens:     int(tokens),
		References: references,
	}, nil
}

func parseEnrich(body []byte) (*EnrichResponse, error) {
	meta, err := parseMeta(body)
	if err != nil {
		return nil, err
	}
	data := gjson.GetBytes(body, "data")
	if !data.IsArray() {
		return nil, &ParseError{Path: "data", Reason: "expected an array"}
	}
	rows := data.Array()
	results := make([]SearchResult, 0, len(rows))
	for i, row := range rows {
		base := fmt.Sprintf("data.%d", i)
		if !row.IsObject() {
			return nil, &ParseError{Path: base, Reason: "expected an object"}
		}
		t, err := fieldInt(row, base, "t")
		if err != nil {
			return nil, err
		}
		rank, err := fieldInt(row, base, "rank")
		if err != nil {
			return nil, err
		}
		url, err := fieldString(row, base, "url")
		if err != nil {
			return nil, err
		}
		title, err := fieldString(row, base, "title")
		if err != nil {
			return nil, err
		}
		snippet, err := fieldString(row, base, "snippet")
		if err != nil {
			return nil, err
		}
		rawPublished, err := fieldString(row, base, "published")
		if err != nil {
			return nil, err
		}
		published, err := parseISOTime(rawPublished)
		if err != nil {
			return nil, &ParseError{Path: base + ".published", Reason: err.Error()}
		}
		results = append(results, SearchResult{
			T:         int(t),
			Rank:      int(rank),
			URL:       url,
			Title:     title,
			Snippet:   snippet,
			Published: published,
		})
	}
	return &EnrichResponse{Response: meta, Results: results}, nil
}

func parseSummarize(body []byte) (*SummarizeResponse, error) {
	meta, err := parseMeta(body)
	if err != nil {
		return nil, err
	}
	data := gjson.GetBytes(body, "data")
	if !data.IsObject() {
		return nil, &ParseError{Path: "data", Reason: "expected an object"}
	}
	tokens, err := fieldInt(data, "data", "tokens")
	if err != nil {
		return nil, err
	}
	output, err := fieldString(data, "data", "output")
	if err != nil {
		return nil, err
	}
	return &SummarizeResponse{Response: meta, Tokens: int(tokens), Output: output}, nil
}

func fieldString(container gjson.Result, base, key string) (string, error) {
	v := container.Get(key)
	if !v.Exists() {
		return "", &ParseError{Path: base + "." + key, Reason: "missing required field"}
	}
	if v.Type != gjson.String {
		return "", &ParseError{Path: base + "." + key, Reason: "expected a string"}
	}
	return v.String(), nil
}

func fieldInt(container gjson.Result, base, key string) (int64, error) {
	v := container.Get(key)
	if !v.Exists() {
		return 0, &ParseError{Path: base + "." + key, Reason: "missing required field"}
	}
	if v.Type != gjson.Number {
		return 0, &ParseError{Path: base + "." + key, Reason: "expected a number"}
	}
	return v.Int(), nil
}

func fieldFloat(container gjson.Result, base, key string) (float64, error) {
	v := container.Get(key)
	if !v.Exists() {
		return 0, &ParseError{Path: base + "." + key, Reason: "missing required field"}
	}
	if v.Type != gjson.Number {
		return 0, &ParseError{Path: base + "." + key, Reason: "expected a number"}
	}
	return v.Float(), nil
}

// isoLayouts covers the publication timestamps the API has been seen to
// return: with an offset, without one, and date-only.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseISOTime(s string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as an ISO 8601 time", s)
}
