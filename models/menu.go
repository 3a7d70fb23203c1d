package models

// MenuItem is a dish as stored in the menuItems collection.
type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"` // minor currency units
	CategoryID  string   `json:"categoryId"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	ServesCount int      `json:"servesCount"`
	Remaining   Servings `json:"remainingServings"`
	Available   bool     `json:"isAvailable"`
}

// RemainingServings resolves the counter against the item's capacity.
func (m MenuItem) RemainingServings() int {
	return m.Remaining.Resolve(m.ServesCount)
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
