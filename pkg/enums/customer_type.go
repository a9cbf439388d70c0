package enums

// CustomerType is the classification that selects the pricing table. The
// literal values match what the ordering console has always sent; anything
// other than "User" is priced as a direct customer.
type CustomerType string

const (
	CustomerTypeUser     CustomerType = "User"
	CustomerTypeCustomer CustomerType = "Customer"
)

// String implements fmt.Stringer.
func (c CustomerType) String() string {
	return string(c)
}

// IsDirectCustomer reports whether the classification is priced from the
// direct customer table rather than the base table.
func (c CustomerType) IsDirectCustomer() bool {
	return c != CustomerTypeUser
}
