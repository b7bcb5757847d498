package dto

// StateResponse estado del embudo.
type StateResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
