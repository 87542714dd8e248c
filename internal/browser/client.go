// Package browser defines the optional browser automation collaborator used
// for web console exercises. No driver ships with the harness; every
// consumer treats an absent or unconnectable client as a soft skip.
package browser

// Result is the outcome of one browser action.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Path    string `json:"path,omitempty"` // screenshot location, when applicable
}

// Selectors names the login form elements for Authenticate.
type Selectors struct {
	Username string
	Password string
	Submit   string
}

// Client drives a browser against the lab web console.
type Client interface {
	Connect(headless bool) bool
	Navigate(url string) Result
	Click(selector string) Result
	Fill(selector, value string) Result
	Screenshot(name string) Result
	Authenticate(username, password string, selectors Selectors) Result
	IsVisible(selector string) bool
	Close()
}
