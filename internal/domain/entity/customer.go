package entity

import "time"

// DeliveryStateDelivered marca de entrega; junto con el estado de venta dispara el sello de fecha.
const DeliveryStateDelivered = "ENTREGADO"

// Customer representa un cliente del embudo de ventas (financiación / renting de motos).
type Customer struct {
	ID            int64
	Name          string
	Email         *string // único cuando está presente
	Phone         string
	Address       string
	City          string
	Department    string
	Document      string // cédula
	Birthdate     *time.Time
	AdvisorID     *int64 // nil = sin asignar
	StateID       int64
	DeliveryState string
	PlateNumber   *string
	DeliveryDate  *time.Time // se escribe una sola vez
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CustomerDetail cliente con su asesor, estado y comentarios (lectura).
type CustomerDetail struct {
	Customer
	Advisor  *UserSummary
	State    *PipelineState
	Comments []CommentDetail
}
