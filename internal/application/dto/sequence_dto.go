package dto

// ConfigureSequenceRequest entrada para crear o reconfigurar un contador.
type ConfigureSequenceRequest struct {
	Prefix      string `json:"prefix"`
	MinValue    int64  `json:"min_value"`
	MaxValue    int64  `json:"max_value"`
	IncrementBy int64  `json:"increment_by"`
	AutoReset   bool   `json:"auto_reset"`
}

// SequenceResponse estado de un contador.
type SequenceResponse struct {
	EntityType  string `json:"entity_type"`
	Year        int    `json:"year"`
	LastNumber  int64  `json:"last_number"`
	Prefix      string `json:"prefix,omitempty"`
	MinValue    int64  `json:"min_value"`
	MaxValue    int64  `json:"max_value"`
	IncrementBy int64  `json:"increment_by"`
	AutoReset   bool   `json:"auto_reset"`
	Remaining   int64  `json:"remaining"`
}

// NumberResponse número de documento asignado o consultado.
type NumberResponse struct {
	EntityType string `json:"entity_type"`
	Year       int    `json:"year"`
	Number     string `json:"number"`
}
