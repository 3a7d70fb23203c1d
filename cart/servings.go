package cart

import (
	"context"
	"errors"
	"fmt"

	"food-ordering/models"
)

var (
	ErrInsufficientServings = errors.New("not enough servings left")
	ErrQuantityOutOfRange   = fmt.Errorf("quantity must not exceed %d", MaxLineQuantity)
)

// MaxLineQuantity bounds a single line so quantity arithmetic cannot overflow.
const MaxLineQuantity = 999

// ServingsReader re-reads an item from the catalog. store.Catalog satisfies it.
type ServingsReader interface {
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
}

type InsufficientServingsError struct {
	ItemID    string
	ItemName  string
	Requested int
	Remaining int
}

func (e *InsufficientServingsError) Error() string {
	return fmt.Sprintf("%s: only %d servings left of %q, requested %d",
		ErrInsufficientServings, e.Remaining, e.ItemName, e.Requested)
}

func (e *InsufficientServingsError) Is(target error) bool {
	return target == ErrInsufficientServings
}

// checkServings is advisory: two carts can pass it for the same last serving.
func (c *Cart) checkServings(ctx context.Context, itemID string, prospective int) error {
	if c.servings == nil {
		return nil
	}
	item, err := c.servings.GetMenuItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("check servings for %s: %w", itemID, err)
	}
	remaining := item.RemainingServings()
	if prospective > remaining {
		return &InsufficientServingsError{
			ItemID:    itemID,
			ItemName:  item.Name,
			Requested: prospective,
			Remaining: remaining,
		}
	}
	return nil
}
