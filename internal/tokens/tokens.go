// Package tokens holds the single token-cost formula used by every part of
// the client that needs to price a dataset.
package tokens

// FreeRowLimit is the largest dataset (in data rows) processed for free.
const FreeRowLimit = 50

// rowsPerStep is the size of a billing step above the free tier.
const rowsPerStep = 5

// Required returns the number of tokens needed to process a dataset with the
// given number of data rows.
//
//	rows <= 50:  0
//	otherwise:   k = ceil((rows-50)/5), tokens = ceil(2.5*k)
//
// Negative row counts are treated as 0.
func Required(rows int) int {
	if rows <= FreeRowLimit {
		return 0
	}
	k := (rows - FreeRowLimit + rowsPerStep - 1) / rowsPerStep
	// ceil(2.5*k) == ceil(5k/2)
	return (5*k + 1) / 2
}

// Deficit returns how many tokens are missing to cover required.
func Deficit(balance, required int) int {
	if required <= balance {
		return 0
	}
	return required - balance
}
