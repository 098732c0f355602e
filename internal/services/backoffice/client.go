package backoffice

import (
	"fmt"

	"github.com/kolo/xmlrpc"
)

// Client talks to the storefront backoffice over XML-RPC. The export
// method returns one struct per order with string-convertible fields.
type Client struct {
	URL      string
	Username string
	Password string
}

// NewClient creates a new backoffice client
func NewClient(url, username, password string) *Client {
	return &Client{
		URL:      url,
		Username: username,
		Password: password,
	}
}

// FetchOrders pulls the order export. An empty since fetches everything.
func (c *Client) FetchOrders(since string) ([]map[string]interface{}, error) {
	client, err := xmlrpc.NewClient(c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	args := []interface{}{c.Username, c.Password, map[string]interface{}{
		"since": since,
	}}

	var rows []map[string]interface{}
	if err := client.Call("esim.exportOrders", args, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch order export: %w", err)
	}

	return rows, nil
}
