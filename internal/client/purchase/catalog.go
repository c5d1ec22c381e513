// Package purchase implements the token package catalog and the
// select/review purchase flow.
package purchase

import (
	"fmt"
	"strconv"
)

// Plan is one package of the fixed catalog. Prices are whole rupees.
type Plan struct {
	Name        string
	Tokens      int
	Price       int
	Highlighted bool
	Description string
}

// PerToken is the effective price of one token.
func (p Plan) PerToken() float64 {
	return float64(p.Price) / float64(p.Tokens)
}

var catalog = []Plan{
	{Name: "Starter", Tokens: 50, Price: 499, Description: "Good for small datasets"},
	{Name: "Research", Tokens: 150, Price: 1299, Highlighted: true, Description: "Most popular, best value"},
	{Name: "Institutional", Tokens: 500, Price: 3999, Description: "For large-scale projects"},
}

// Catalog returns the packages in ascending size.
func Catalog() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

// Find looks a package up by its token amount.
func Find(tokens int) (Plan, bool) {
	for _, p := range catalog {
		if p.Tokens == tokens {
			return p, true
		}
	}
	return Plan{}, false
}

// Recommend returns the smallest package covering required tokens. Nothing
// is recommended when no tokens are required.
func Recommend(required int) (Plan, bool) {
	switch {
	case required <= 0:
		return Plan{}, false
	case required <= 50:
		return catalog[0], true
	case required <= 150:
		return catalog[1], true
	default:
		return catalog[2], true
	}
}

// FormatPrice renders a rupee amount with thousands separators, e.g. ₹1,299.
func FormatPrice(rupees int) string {
	s := strconv.Itoa(rupees)
	neg := false
	if rupees < 0 {
		neg = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return fmt.Sprintf("₹%s", s)
}
