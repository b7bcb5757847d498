package dto

import "time"

// MotivationItemDTO frase del mensaje.
type MotivationItemDTO struct {
	Description string `json:"description" validate:"required,max=500"`
}

// MotivationRequest entrada para crear o reemplazar un mensaje.
type MotivationRequest struct {
	Title    string              `json:"title" validate:"required,max=200"`
	Subtitle string              `json:"subtitle" validate:"omitempty,max=300"`
	Items    []MotivationItemDTO `json:"items" validate:"required,min=1,dive"`
}

// MotivationResponse salida de un mensaje.
type MotivationResponse struct {
	ID        int64               `json:"id"`
	Title     string              `json:"title"`
	Subtitle  string              `json:"subtitle"`
	Items     []MotivationItemDTO `json:"items"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}
