package models

type SearchRequest struct {
	Term string `json:"term" validate:"required"`
}

type SearchResponse struct {
	Term  string `json:"term"`
	Found bool   `json:"found"`
}

type AnalyzeRequest struct {
	Text string `json:"text" validate:"required"`
}
