package controls

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/pkg/cep"
	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/validation"
)

// addressControl is the seven-part address composite. A completed CEP
// triggers a lookup whose result fills state, city, neighborhood and street;
// number and complement are never touched by a lookup.
type addressControl struct {
	base
	tracker *cep.Tracker

	mu    sync.Mutex
	parts map[fieldrules.AddressPart]string
}

func newAddress(b base) *addressControl {
	tracker := b.deps.Tracker
	if tracker == nil {
		tracker = new(cep.Tracker)
	}
	return &addressControl{base: b, tracker: tracker, parts: make(map[fieldrules.AddressPart]string)}
}

// Value returns the parts keyed by name; empty parts are omitted.
func (c *addressControl) Value() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *addressControl) snapshot() map[string]string {
	out := make(map[string]string, len(c.parts))
	for part, value := range c.parts {
		if value != "" {
			out[string(part)] = value
		}
	}
	return out
}

// Set treats input as the CEP.
func (c *addressControl) Set(input string) error {
	return c.SetPart(context.Background(), fieldrules.AddressCEP, input)
}

// SetPart updates one part. Setting a complete CEP performs the lookup
// before returning; results superseded by a newer CEP are dropped.
func (c *addressControl) SetPart(ctx context.Context, part fieldrules.AddressPart, value string) error {
	if !fieldrules.ValidAddressPart(part) {
		return ErrRejected
	}
	if part != fieldrules.AddressCEP {
		c.mu.Lock()
		c.parts[part] = value
		snapshot := c.snapshot()
		c.mu.Unlock()
		c.notify(snapshot)
		return nil
	}

	formatted := validation.FormatCEP(value)
	c.mu.Lock()
	c.parts[fieldrules.AddressCEP] = formatted
	snapshot := c.snapshot()
	c.mu.Unlock()
	c.notify(snapshot)

	if !validation.IsCompleteCEP(formatted) || c.deps.CEP == nil {
		c.tracker.Invalidate()
		return nil
	}

	token := c.tracker.Next()
	address := c.deps.CEP.Lookup(ctx, formatted)
	if address == nil {
		return nil
	}

	c.mu.Lock()
	if !c.tracker.Current(token) {
		c.mu.Unlock()
		c.deps.Logger.WithFields(logrus.Fields{"cep": formatted, "field": c.field.ID}).Debug("controls: stale cep result dropped")
		return nil
	}
	c.parts[fieldrules.AddressState] = address.State
	c.parts[fieldrules.AddressCity] = address.City
	c.parts[fieldrules.AddressNeighborhood] = address.Neighborhood
	c.parts[fieldrules.AddressStreet] = address.Street
	snapshot = c.snapshot()
	c.mu.Unlock()
	c.notify(snapshot)
	return nil
}

func (c *addressControl) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.view()
	v.Value = c.parts[fieldrules.AddressCEP]
	v.Parts = make(map[string]string, len(fieldrules.AddressParts()))
	for _, spec := range fieldrules.AddressParts() {
		v.Parts[string(spec.Part)] = c.parts[spec.Part]
	}
	v.Valid = v.Value == "" || validation.IsCompleteCEP(v.Value)
	return v
}
