package pipeline

import (
	"strings"
	"time"

	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
)

// Changes cambios propuestos sobre un cliente. Un campo nil no se toca.
// Para Email y PlateNumber una cadena vacía borra el valor.
type Changes struct {
	Name          *string
	Email         *string
	Phone         *string
	Address       *string
	City          *string
	Department    *string
	Document      *string
	Birthdate     *time.Time
	AdvisorID     *int64
	StateID       *int64
	DeliveryState *string
	PlateNumber   *string
	DeliveryDate  *time.Time
}

// ReachesDelivery los cambios llevan al cliente a la marca de entrega o al estado de venta.
func (c Catalog) ReachesDelivery(ch Changes) bool {
	if ch.DeliveryState != nil && strings.EqualFold(strings.TrimSpace(*ch.DeliveryState), entity.DeliveryStateDelivered) {
		return true
	}
	return ch.StateID != nil && *ch.StateID == c.SaleStateID
}

// ApplyChanges devuelve prev con los cambios aplicados y UpdatedAt = now.
//
// DeliveryDate se escribe una sola vez: mientras esté vacío, toma la fecha explícita de ch
// o now si los cambios alcanzan la entrega. Una vez escrito no vuelve a cambiar.
func (c Catalog) ApplyChanges(prev entity.Customer, ch Changes, now time.Time) entity.Customer {
	next := prev

	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setStr(&next.Name, ch.Name)
	setStr(&next.Phone, ch.Phone)
	setStr(&next.Address, ch.Address)
	setStr(&next.City, ch.City)
	setStr(&next.Department, ch.Department)
	setStr(&next.Document, ch.Document)
	if ch.Email != nil {
		next.Email = nullable(*ch.Email)
	}
	if ch.PlateNumber != nil {
		next.PlateNumber = nullable(*ch.PlateNumber)
	}
	if ch.DeliveryState != nil {
		next.DeliveryState = strings.ToUpper(strings.TrimSpace(*ch.DeliveryState))
	}
	if ch.Birthdate != nil {
		d := *ch.Birthdate
		next.Birthdate = &d
	}
	if ch.AdvisorID != nil {
		id := *ch.AdvisorID
		next.AdvisorID = &id
	}
	if ch.StateID != nil {
		next.StateID = *ch.StateID
	}

	if prev.DeliveryDate == nil {
		switch {
		case ch.DeliveryDate != nil:
			d := *ch.DeliveryDate
			next.DeliveryDate = &d
		case c.ReachesDelivery(ch):
			stamp := now
			next.DeliveryDate = &stamp
		}
	} else {
		d := *prev.DeliveryDate
		next.DeliveryDate = &d
	}

	next.UpdatedAt = now
	return next
}

func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
