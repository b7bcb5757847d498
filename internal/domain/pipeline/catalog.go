// Package pipeline contiene el catálogo de estados del embudo y la regla de sello de entrega.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
)

// CanonicalStates nombres sembrados por la migración inicial, en orden.
var CanonicalStates = []string{
	"Sin Contactar",
	"INTENTANDO CONTACTAR",
	"REPORTADO",
	"INTERESADO",
	"CREDIORBE",
	"PROGRESER",
	"SUFI",
	"VANTI",
	"MOTORENTING",
	"MOTORENTING PLUS",
	"BBVA",
	"CAJA SOCIAL",
	"NU BANK",
	"ADDI",
	"BANCO BOGOTÁ",
	"VEHIGRUPO",
	"APROBADO OTROS",
	"VENTA",
}

// Catalog ids con semántica especial, resueltos una vez al arrancar.
type Catalog struct {
	DefaultStateID int64
	SaleStateID    int64
	DeadStateIDs   []int64
}

// NewCatalog resuelve los ids por nombre. Los estados muertos que no existan se ignoran;
// el estado por defecto y el de venta son obligatorios.
func NewCatalog(states []entity.PipelineState, defaultName, saleName string, deadNames []string) (Catalog, error) {
	find := func(name string) (int64, bool) {
		for _, s := range states {
			if strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(name)) {
				return s.ID, true
			}
		}
		return 0, false
	}

	var c Catalog
	var ok bool
	if c.DefaultStateID, ok = find(defaultName); !ok {
		return Catalog{}, fmt.Errorf("pipeline: no existe el estado por defecto %q", defaultName)
	}
	if c.SaleStateID, ok = find(saleName); !ok {
		return Catalog{}, fmt.Errorf("pipeline: no existe el estado de venta %q", saleName)
	}
	for _, name := range deadNames {
		if id, found := find(name); found {
			c.DeadStateIDs = append(c.DeadStateIDs, id)
		}
	}
	return c, nil
}

// IsDead indica si el estado se oculta en el listado del asesor.
func (c Catalog) IsDead(stateID int64) bool {
	for _, id := range c.DeadStateIDs {
		if id == stateID {
			return true
		}
	}
	return false
}

// IsDelivered cliente en estado de venta y con placa asignada.
func (c Catalog) IsDelivered(cu *entity.Customer) bool {
	return cu.StateID == c.SaleStateID && cu.PlateNumber != nil && strings.TrimSpace(*cu.PlateNumber) != ""
}
