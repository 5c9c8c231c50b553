package paper

// Author is one entry of a paper's author mapping: display name to external id.
type Author struct {
	Name string `json:"name"` // Display name, the identity key
	ID   string `json:"id"`   // External author identifier
}
