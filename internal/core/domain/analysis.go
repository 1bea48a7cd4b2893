package domain

import "time"

const (
	LanguageRussian = "ru"
	LanguageEnglish = "en"
	LanguageUnknown = "unknown"
)

type Entity struct {
	Text  string `json:"text"`
	Type  string `json:"type"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Token is a single analyzed token with its part-of-speech tag.
type Token struct {
	Text string `json:"text"`
	POS  string `json:"pos"`
}

// Annotation is the output of the entity-recognition capability.
type Annotation struct {
	Entities []Entity `json:"entities"`
	Tokens   []Token  `json:"tokens"`
}

type Sentiment struct {
	Label    string `json:"label"`
	Score    int    `json:"score"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
}

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// AnalysisResult is the persisted outcome of text analysis for one file.
// Sentiment is nil when the text was too short to score.
type AnalysisResult struct {
	Text         string     `json:"text"`
	Language     string     `json:"language"`
	Entities     []Entity   `json:"entities"`
	Sentiment    *Sentiment `json:"sentiment,omitempty"`
	Keywords     []string   `json:"keywords"`
	Dates        []string   `json:"dates"`
	MoneyAmounts []string   `json:"money_amounts"`
}

// InspectReport is the response of the synchronous inspection variant.
type InspectReport struct {
	Status   string         `json:"status"`
	Type     string         `json:"type"`
	Filename string         `json:"filename"`
	Result   AnalysisResult `json:"result"`
}

// StoredResult is an AnalysisResult record as kept by the result store.
type StoredResult struct {
	ID         string         `json:"id"`
	FileID     string         `json:"file_id"`
	ResultType string         `json:"result_type"`
	Data       AnalysisResult `json:"data"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
