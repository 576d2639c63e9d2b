package entity

// Store reference data, never mutated by the ledger
type Store struct {
	ID      string
	Name    string
	Address string
}
