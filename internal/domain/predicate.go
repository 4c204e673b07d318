package domain

import "strings"

// Predicate reports whether a product belongs to a search result.
type Predicate func(Product) bool

// ByCategory matches products tagged with c.
func ByCategory(c Category) Predicate {
	return func(p Product) bool { return p.Category == c }
}

// StockAbove matches products whose stock is strictly greater than qty.
func StockAbove(qty float64) Predicate {
	return func(p Product) bool { return p.StockQuantity > qty }
}

// PriceAtMost matches products priced at or below max.
func PriceAtMost(max float64) Predicate {
	return func(p Product) bool { return p.Price <= max }
}

// NameContains matches products whose name contains s, ignoring case.
func NameContains(s string) Predicate {
	needle := strings.ToLower(s)
	return func(p Product) bool { return strings.Contains(strings.ToLower(p.Name), needle) }
}

// And matches when every predicate matches. With no predicates it matches
// everything.
func And(preds ...Predicate) Predicate {
	return func(p Product) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}

// Or matches when at least one predicate matches. With no predicates it
// matches nothing.
func Or(preds ...Predicate) Predicate {
	return func(p Product) bool {
		for _, pred := range preds {
			if pred(p) {
				return true
			}
		}
		return false
	}
}

func Not(pred Predicate) Predicate {
	return func(p Product) bool { return !pred(p) }
}
