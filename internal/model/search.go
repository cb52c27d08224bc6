package model

type SearchResult struct {
	Products  []ScoredProduct `json:"products"`
	MaxScore  float64         `json:"maxScore"`
	Embedding []float32       `json:"embedding,omitempty"`
}
