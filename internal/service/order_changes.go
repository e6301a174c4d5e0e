package service

import (
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/models"
)

// OrderPatch carries the mutable order fields of an update request. Nil
// means "leave unchanged". Status and worker reassignment are handled
// separately because they are role-gated on their own.
type OrderPatch struct {
	SenderName    *string
	SenderPhone   *string
	ReceiverName  *string
	ReceiverPhone *string
	CargoType     *string
	Weight        *models.Weight
	Price         *models.Money
	Notes         *string
	PhotoURL      *string
	Status        *string
	WorkerID      *uint
}

// HasFieldEdits reports whether the patch touches anything besides status.
func (p *OrderPatch) HasFieldEdits() bool {
	return p.SenderName != nil || p.SenderPhone != nil ||
		p.ReceiverName != nil || p.ReceiverPhone != nil ||
		p.CargoType != nil || p.Weight != nil || p.Price != nil ||
		p.Notes != nil || p.PhotoURL != nil || p.WorkerID != nil
}

// orderFieldDescriptor declares one diffable order field: how to read the
// patch value, the current value, and how to write it back. The audit
// entry's changes map is built from these, so adding a field here is all
// that is needed to make it tracked.
type orderFieldDescriptor struct {
	name    string
	patched func(p *OrderPatch) (interface{}, bool)
	current func(o *models.Order) interface{}
	assign  func(o *models.Order, v interface{})
}

var orderFieldDescriptors = []orderFieldDescriptor{
	{
		name: "sender_name",
		patched: func(p *OrderPatch) (interface{}, bool) {
			if p.SenderName == nil {
				return nil, false
			}
			return *p.SenderName, true
		},
		current: func(o *models.Order) interface{} { return o.SenderName },
		assign:  func(o *models.Order, v interface{}) { o.SenderName = v.(string) },
	},
	{
		name: "sender_phone",
		patched: func(p *OrderPatch) (interface{}, bool) {
			if p.SenderPhone == nil {
				return nil, false
			}
			return *p.SenderPhone, true
		},
		current: func(o *models.Order) interface{} { return o.SenderPhone },
		assign:  func(o *models.Order, v interface{}) { o.SenderPhone = v.(string) },
	},
	{
		name: "receiver_name",
		patched: func(p *OrderPatch) (interface{}, bool) {
			if p.ReceiverName == nil {
				return nil, false
			}
			return *p.ReceiverName, true
		},
		current: func(o *models.Order) interface{} { return o.ReceiverName },
		assign:  func(o *models.Order, v interface{}) { o.ReceiverName = v.(string) },
	},
	{
		name: "receiver_phone",
		patched: func(p *OrderPatch) (interface{}, bool) {
			if p.ReceiverPhone == nil {
				return nil, false
			}
			return *p.ReceiverPhone, true
		},
		current: func(o *models.Order) interface{} { return o.ReceiverPhone },
		assign:  func(o *models.Order, v interface{}) { o.ReceiverPhone = v.(string) },
	},
	{
		name: "cargo_type",
		patched: func(p *OrderPatch) (interface{}, bool) {
			if p.CargoType == nil {
				return nil, false
			}
			return *p.CargoType, true
		},
		current: func(o *models.Order) interface{} { return o.CargoType },
		assign:  func(o *models.Order, v interface{}) { o.CargoType = v.(string) },
	},
	{
		name: "weight",
		patched: func(p *OrderPatch) (interface{}, bool) {
			if p.Weight == nil {
				return nil, false
			}
			return p.Weight.String(), true
		},
		current: func(o *models.Order) interface{} {
			if o.Weight == nil {
				return ""
			}
			return o.Weight.String()
		},
		// assigned from the typed patch value after the diff
	},
	{
		name: "price",
		patched: func(p *OrderPatch) (interface{}, bool) {
			if p.Price == nil {
				return nil, false
			}
			return p.Price.String(), true
		},
		current: func(o *models.Order) interface{} {
			if o.Price == nil {
				return ""
			}
			return o.Price.String()
		},
	},
	{
		name: "notes",
		patched: func(p *OrderPatch) (interface{}, bool) {
			if p.Notes == nil {
				return nil, false
			}
			return *p.Notes, true
		},
		current: func(o *models.Order) interface{} { return o.Notes },
		assign:  func(o *models.Order, v interface{}) { o.Notes = v.(string) },
	},
	{
		name: "photo_url",
		patched: func(p *OrderPatch) (interface{}, bool) {
			if p.PhotoURL == nil {
				return nil, false
			}
			return *p.PhotoURL, true
		},
		current: func(o *models.Order) interface{} { return o.PhotoURL },
		assign:  func(o *models.Order, v interface{}) { o.PhotoURL = v.(string) },
	},
}

// applyOrderPatch applies the scalar fields of the patch to the order and
// returns the old/new pairs of everything that actually changed. Weight and
// price compare by their formatted string to avoid decimal representation
// noise, then assign the typed value directly.
func applyOrderPatch(order *models.Order, patch *OrderPatch) models.JSON {
	changes := models.JSON{}
	for _, desc := range orderFieldDescriptors {
		patched, present := desc.patched(patch)
		if !present {
			continue
		}
		current := desc.current(order)
		if patched == current {
			continue
		}
		changes[desc.name] = map[string]interface{}{
			"from": current,
			"to":   patched,
		}
		if desc.assign != nil {
			desc.assign(order, patched)
		}
	}
	if _, ok := changes["weight"]; ok {
		order.Weight = patch.Weight
	}
	if _, ok := changes["price"]; ok {
		order.Price = patch.Price
	}
	return changes
}
