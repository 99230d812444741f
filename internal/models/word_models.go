package models

// WordStat is one distinct token with its frequency and stopword flag,
// exactly as the model reported it.
type WordStat struct {
	Word       string `json:"word"`
	Count      int    `json:"count"`
	IsStopWord bool   `json:"isStopWord"`
}
