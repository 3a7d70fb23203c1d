// Package cart holds the items one customer intends to order before
// submission. Every mutation persists the full line set to the device's
// storage under devicestore.KeyCart.
package cart

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"food-ordering/devicestore"
	"food-ordering/models"
)

// Line is a menu item snapshot plus a quantity >= 1.
type Line struct {
	Item     models.MenuItem `json:"item"`
	Quantity int             `json:"quantity"`
}

func (l Line) Subtotal() int64 {
	return l.Item.Price * int64(l.Quantity)
}

// Aggregator is what the HTTP layer and order submission depend on.
type Aggregator interface {
	Add(ctx context.Context, item models.MenuItem, delta int) error
	Remove(ctx context.Context, itemID string) error
	SetQuantity(ctx context.Context, itemID string, quantity int) error
	Clear(ctx context.Context) error
	QuantityOf(itemID string) int
	TotalItemCount() int
	TotalPrice() int64
	Lines() []Line
}

type Option func(*Cart)

// WithServings enables the remaining-servings check before any quantity increase.
func WithServings(r ServingsReader) Option {
	return func(c *Cart) { c.servings = r }
}

type Cart struct {
	storage  devicestore.Storage
	servings ServingsReader

	lines []Line
	index map[string]int // item ID -> position in lines
}

var _ Aggregator = (*Cart)(nil)

// New returns an empty cart bound to storage without reading it.
func New(storage devicestore.Storage, opts ...Option) *Cart {
	c := &Cart{storage: storage, index: make(map[string]int)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load hydrates a cart from storage. Unreadable or malformed data yields an
// empty cart.
func Load(ctx context.Context, storage devicestore.Storage, opts ...Option) *Cart {
	c := New(storage, opts...)

	raw, ok, err := storage.GetItem(ctx, devicestore.KeyCart)
	if err != nil {
		log.WithError(err).Warn("cart: read stored lines, starting empty")
		return c
	}
	if !ok {
		return c
	}

	var stored []Line
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.WithError(err).Warn("cart: discarding malformed stored lines")
		return c
	}
	for _, l := range stored {
		if l.Item.ID == "" || l.Quantity <= 0 {
			continue
		}
		if i, dup := c.index[l.Item.ID]; dup {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.index[l.Item.ID] = len(c.lines)
		c.lines = append(c.lines, l)
	}
	return c
}

// Add inserts item with quantity delta, or adds delta to an existing line.
// A resulting quantity <= 0 removes the line; one above MaxLineQuantity is
// rejected with ErrQuantityOutOfRange.
func (c *Cart) Add(ctx context.Context, item models.MenuItem, delta int) error {
	current := c.QuantityOf(item.ID)
	if current == 0 && delta <= 0 {
		return nil
	}
	if delta > MaxLineQuantity-current {
		return ErrQuantityOutOfRange
	}
	next := current + delta
	if next > current {
		if err := c.checkServings(ctx, item.ID, next); err != nil {
			return err
		}
	}

	switch {
	case next <= 0:
		c.removeLine(item.ID)
	case current == 0:
		c.index[item.ID] = len(c.lines)
		c.lines = append(c.lines, Line{Item: item, Quantity: next})
	default:
		c.lines[c.index[item.ID]].Quantity = next
	}
	return c.persist(ctx)
}

// Remove deletes the line for itemID; absent IDs are a no-op.
func (c *Cart) Remove(ctx context.Context, itemID string) error {
	c.removeLine(itemID)
	return c.persist(ctx)
}

// SetQuantity replaces a line's quantity; quantity <= 0 removes it. Items
// not in the cart are ignored since there is no snapshot to store.
func (c *Cart) SetQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity <= 0 {
		return c.Remove(ctx, itemID)
	}
	if quantity > MaxLineQuantity {
		return ErrQuantityOutOfRange
	}
	i, ok := c.index[itemID]
	if !ok {
		return nil
	}
	if quantity > c.lines[i].Quantity {
		if err := c.checkServings(ctx, itemID, quantity); err != nil {
			return err
		}
	}
	c.lines[i].Quantity = quantity
	return c.persist(ctx)
}

func (c *Cart) Clear(ctx context.Context) error {
	c.lines = nil
	c.index = make(map[string]int)
	return c.persist(ctx)
}

func (c *Cart) QuantityOf(itemID string) int {
	if i, ok := c.index[itemID]; ok {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) TotalItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// OrderLines freezes the cart into order line items.
func OrderLines(a Aggregator) []models.OrderLine {
	lines := a.Lines()
	out := make([]models.OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, models.OrderLine{
			ItemID:   l.Item.ID,
			Name:     l.Item.Name,
			Price:    l.Item.Price,
			Quantity: l.Quantity,
		})
	}
	return out
}

func (c *Cart) removeLine(itemID string) {
	i, ok := c.index[itemID]
	if !ok {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, itemID)
	for id, j := range c.index {
		if j > i {
			c.index[id] = j - 1
		}
	}
}

func (c *Cart) persist(ctx context.Context) error {
	lines := c.lines
	if lines == nil {
		lines = []Line{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart lines: %w", err)
	}
	if err := c.storage.SetItem(ctx, devicestore.KeyCart, string(b)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
