package domain

import "fmt"

// ContractQuery selects a contract artifact by name, optionally asking the user to pick one
type ContractQuery struct {
	// Name is the artifact contract name (e.g., "LSP0ERC725Account"); empty means "let the user pick"
	Name string
	// Prompt is shown by the interactive picker
	Prompt string
}

// String returns a string representation of the query
func (cq ContractQuery) String() string {
	if cq.Name == "" {
		return "<all contracts>"
	}
	return fmt.Sprintf("contract %s", cq.Name)
}
