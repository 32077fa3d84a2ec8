package model

import "time"

// ContractBook is the exportable contract overview (one row per
// contract visible to the requesting principal).
type ContractBook struct {
	GeneratedFor string
	GeneratedAt  time.Time
	Rows         []ContractBookRow
}

type ContractBookRow struct {
	Contract    Contract
	ClientName  string
	CompanyName string
}

// EventSheet is the printable one-pager for a single event.
type EventSheet struct {
	Event       Event
	Contract    Contract
	ClientName  string
	SupportName string
}
