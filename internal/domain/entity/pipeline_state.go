package entity

// PipelineState etapa del embudo de ventas ("Sin Contactar", "SUFI", "VENTA", ...).
type PipelineState struct {
	ID   int64
	Name string
}
