package domain

// MenuItem is a catalog entry with the authoritative stock count.
// Prices are whole rupees, prep times are minutes.
type MenuItem struct {
	ID        string
	Name      string
	Category  string
	Price     int
	PrepTime  int
	Stock     int
	Available bool
}

// NewMenuItem creates a catalog entry with business rules applied.
func NewMenuItem(id, name, category string, price, prepTime, stock int, available bool) (*MenuItem, error) {
	item := &MenuItem{
		ID:        id,
		Name:      name,
		Category:  category,
		Price:     price,
		PrepTime:  prepTime,
		Stock:     stock,
		Available: available,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate applies business validation rules.
func (m *MenuItem) Validate() error {
	if m.Name == "" {
		return NewValidation("item name is required")
	}
	if m.Category == "" {
		return NewValidation("item category is required")
	}
	if m.Price <= 0 {
		return NewValidation("item price must be positive")
	}
	if m.PrepTime <= 0 {
		return NewValidation("item prep time must be positive")
	}
	if m.Stock < 0 {
		return NewValidation("item stock must not be negative")
	}
	return nil
}

// Deduct removes qty units of stock. Stock never goes negative; a
// deduction that cannot be satisfied fails without mutating the item.
func (m *MenuItem) Deduct(qty int) error {
	if qty <= 0 {
		return NewValidation("deduction quantity must be positive")
	}
	if m.Stock < qty {
		return NewInsufficientStock(m.Name)
	}
	m.Stock -= qty
	return nil
}

// CanFulfil reports whether the item can serve an order line of qty
// at its current stock and availability.
func (m *MenuItem) CanFulfil(qty int) error {
	if !m.Available || m.Stock < qty {
		return NewInsufficientStock(m.Name)
	}
	return nil
}
