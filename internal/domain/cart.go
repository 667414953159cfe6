package domain

// LineID builds the stable identity of a cart line. Two adds for the same
// product+variant resolve to the same line id and merge instead of
// duplicating.
func LineID(productID, variantID string) string {
	if variantID != "" {
		return productID + ":" + variantID
	}
	return productID
}

// CartLine is one product+variant entry within a cart. Name, price and image
// are snapshots taken at the line's most recent mutation, not live catalog
// references, so a cart's displayed total is stable against concurrent
// catalog edits.
type CartLine struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"`
	ImageURL  string `json:"image_url"`
}

// Cart is a mutable collection of lines pending purchase. Carts are created
// implicitly on first reference and are emptied, never deleted, on checkout.
type Cart struct {
	ID    string     `json:"id"`
	Lines []CartLine `json:"items"`
}

// Line returns a pointer to the line with the given id, or nil.
func (c *Cart) Line(lineID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return &c.Lines[i]
		}
	}
	return nil
}

// RemoveLine filters out the line with the given id. Removing an absent line
// is a no-op.
func (c *Cart) RemoveLine(lineID string) {
	kept := c.Lines[:0]
	for _, line := range c.Lines {
		if line.ID != lineID {
			kept = append(kept, line)
		}
	}
	c.Lines = kept
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns a deep copy of the cart. Stores hand out clones so callers
// can never mutate shared state outside a cart's critical section.
func (c *Cart) Clone() *Cart {
	out := &Cart{ID: c.ID}
	if len(c.Lines) > 0 {
		out.Lines = make([]CartLine, len(c.Lines))
		copy(out.Lines, c.Lines)
	}
	return out
}

// Totals aggregates a cart's derived amounts. There is no tax, shipping or
// discount engine, so total always equals subtotal.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Total    int64 `json:"total"`
	Count    int   `json:"count"`
}

// ComputeTotals derives totals from the cart's current lines.
func (c *Cart) ComputeTotals() Totals {
	var t Totals
	for _, line := range c.Lines {
		t.Subtotal += line.LineTotal
		t.Count += line.Quantity
	}
	t.Total = t.Subtotal
	return t
}
