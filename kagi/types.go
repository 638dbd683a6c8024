package kagi

import "github.com/go-playground/validator/v10"

// SummarizationEngine selects the model persona used by the summarizer.
type SummarizationEngine string

const (
	// EngineCecil is a friendly, descriptive, fast summary.
	EngineCecil SummarizationEngine = "cecil"

	// EngineAgnes is a formal, technical, analytical summary.
	EngineAgnes SummarizationEngine = "agnes"

	// EngineDaphne is an informal, creative, friendly summary.
	EngineDaphne SummarizationEngine = "daphne"

	// EngineMuriel is the best-in-class summary from the enterprise-grade model.
	EngineMuriel SummarizationEngine = "muriel"
)

// SummaryType selects the form the summary is delivered in.
type SummaryType string

const (
	// SummaryTypeSummary is paragraph(s) of summary prose.
	SummaryTypeSummary SummaryType = "summary"

	// SummaryTypeTakeaway is a bulleted list of key points.
	SummaryTypeTakeaway SummaryType = "takeaway"
)

// FastGPTRequest is the input to Client.FastGPT.
type FastGPTRequest struct {
	// Query is the question for the model to answer.
	Query string `json:"query" validate:"required"`

	// Cache allows the API to serve a previously cached answer.
	// nil means true, the API default.
	Cache *bool `json:"cache,omitempty"`
}

// SummarizeRequest is the input to Client.Summarize. Exactly one of URL
// and Text must be set. Optional fields left at their zero value are
// omitted from the request entirely.
type SummarizeRequest struct {
	// URL is the address of the document to summarize.
	URL string `url:"url,omitempty" validate:"required_without=Text,excluded_with=Text"`

	// Text is the raw text to summarize.
	Text string `url:"text,omitempty" validate:"required_without=URL,excluded_with=URL"`

	// Engine selects the summarization engine.
	Engine SummarizationEngine `url:"engine,omitempty" validate:"omitempty,oneof=cecil agnes daphne muriel"`

	// SummaryType selects prose or key takeaways.
	SummaryType SummaryType `url:"summary_type,omitempty" validate:"omitempty,oneof=summary takeaway"`

	// TargetLanguage asks the API to translate the summary, e.g. "EN".
	TargetLanguage string `url:"target_language,omitempty"`

	// Cache allows the API to serve a previously cached summary.
	Cache *bool `url:"cache,omitempty"`
}

// Bool returns a pointer to v, for the optional boolean request fields.
func Bool(v bool) *bool { return &v }

var validate = validator.New()
