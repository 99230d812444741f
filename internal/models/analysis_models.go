package models

import "time"

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// ModelAnalysis is what the language model returns for a piece of text.
type ModelAnalysis struct {
	Idiom     string     `json:"idiom"`
	Sentiment string     `json:"sentiment"`
	Words     []WordStat `json:"words"`
}

// AnalysisSummary is the response body of an analysis request.
type AnalysisSummary struct {
	Idiom        string     `json:"idiom"`
	Sentiment    string     `json:"sentiment"`
	TotalWords   int        `json:"total_words"`
	TopWords     []WordStat `json:"top_5_words"`
	NonStopwords []WordStat `json:"non_stopwords"`
	Stopwords    []WordStat `json:"stopwords"`
}

// LastAnalysis is the single persisted record of the most recent analysis.
type LastAnalysis struct {
	ID        string    `json:"id" dynamodbav:"id"`
	Text      string    `json:"text" dynamodbav:"text"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

type AnalysisCompletedEvent struct {
	AnalysisID string     `json:"analysis_id"`
	Idiom      string     `json:"idiom"`
	Sentiment  string     `json:"sentiment"`
	TotalWords int        `json:"total_words"`
	TopWords   []WordStat `json:"top_5_words"`
	CreatedAt  time.Time  `json:"created_at"`
}
