package domain

// Side names one of the two inputs of a reconciliation.
type Side string

const (
	SideInternal Side = "internal"
	SideProvider Side = "provider"
)

// Record is a single transaction row from either the internal export or the
// provider statement. Reference, Amount and Status are the fields the
// reconciliation compares; every column the parser does not recognise is kept
// verbatim in Extra under its header name.
//
// Columns lists, in header order, the keys beyond transaction_reference,
// amount and status that the source file carried: "date", "description" and
// the Extra header names. It is nil for records built by hand.
type Record struct {
	Reference   string            `json:"transaction_reference"`
	Amount      float64           `json:"amount"`
	Status      string            `json:"status"`
	Date        string            `json:"date,omitempty"`
	Description string            `json:"description,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
	Columns     []string          `json:"-"`
}
