package uiautomator2

import (
	"net/http"

	"github.com/devicelab-dev/patrol-runner/pkg/logger"
)

// NewTestElement creates an Element for testing purposes.
// This should only be used in tests.
func NewTestElement(id string, client *Client) *Element {
	return &Element{
		id:     id,
		client: client,
	}
}

// NewMockClient creates a Client with a placeholder base URL for testing.
// Point it at a test server with SetBaseURL before making requests.
func NewMockClient() *Client {
	return &Client{
		http:      &http.Client{Timeout: DefaultRequestTimeout},
		baseURL:   "http://mock",
		sessionID: "mock-session",
		log:       logger.WithField("component", "uiautomator2"),
	}
}

// SetSession sets the session ID for testing purposes.
// This should only be used in tests.
func (c *Client) SetSession(sessionID string) {
	c.sessionID = sessionID
}

// SetBaseURL sets the base URL for testing purposes.
// This should only be used in tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}
