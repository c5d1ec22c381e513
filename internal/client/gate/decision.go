package gate

import "github.com/dmitrijs2005/hmpi/internal/tokens"

type Verdict int

const (
	// VerdictFree means the dataset is small enough to cost nothing.
	VerdictFree Verdict = iota
	VerdictProceed
	// VerdictBlocked means the balance does not cover the cost and tokens
	// have to be bought first.
	VerdictBlocked
)

func (v Verdict) String() string {
	switch v {
	case VerdictFree:
		return "free"
	case VerdictProceed:
		return "proceed"
	case VerdictBlocked:
		return "blocked"
	}
	return "unknown"
}

type Decision struct {
	Verdict  Verdict
	Required int
	Balance  int
	Deficit  int
}

// Decide checks the candidate's cost against balance. Tokens are not
// reserved; the backend reports the actual charge after processing.
func Decide(c *Candidate, balance int) Decision {
	d := Decision{Required: c.Required, Balance: balance}
	switch {
	case c.Required == 0:
		d.Verdict = VerdictFree
	case balance >= c.Required:
		d.Verdict = VerdictProceed
	default:
		d.Verdict = VerdictBlocked
		d.Deficit = tokens.Deficit(balance, c.Required)
	}
	return d
}
