// Package clients manages the customer registry.
package clients

// Client is a customer profile. Orders reference clients by id only;
// deleting a client leaves its orders with a dangling reference that
// readers resolve to UnknownLabel.
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Company string `json:"company,omitempty"`
}

// UnknownLabel is the placeholder for dangling client references.
const UnknownLabel = "Unknown client"
