package entity

import "time"

// MotivationItem frase de un mensaje motivacional.
type MotivationItem struct {
	Description string `json:"description"`
}

// MotivationMessage mensaje motivacional mostrado al equipo comercial; se muestra el más reciente.
type MotivationMessage struct {
	ID        int64
	Title     string
	Subtitle  string
	Items     []MotivationItem
	CreatedAt time.Time
	UpdatedAt time.Time
}
