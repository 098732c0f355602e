package geoip

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Client resolves an IP address to a country guess via the ipapi.co REST
// API. Lookups are best effort: any failure just means "no geo hint".
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a geo-IP client with a sane timeout.
func NewClient() *Client {
	return &Client{
		baseURL:    "https://ipapi.co",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBase is used by tests to point the client at a fake server.
func NewClientWithBase(baseURL string) *Client {
	c := NewClient()
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// isPrivate filters addresses that can never geolocate.
func isPrivate(ip string) bool {
	return ip == "" || ip == "::1" ||
		strings.HasPrefix(ip, "127.") ||
		strings.HasPrefix(ip, "10.") ||
		strings.HasPrefix(ip, "192.168.") ||
		strings.HasPrefix(ip, "172.16.")
}

// Country returns the country guess for an IP. ok is false for private
// addresses and on any transport, status or decode failure.
func (c *Client) Country(ctx context.Context, ip string) (name, code string, ok bool) {
	if isPrivate(ip) {
		return "", "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+ip+"/json/", nil)
	if err != nil {
		return "", "", false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", false
	}

	var payload struct {
		CountryName string `json:"country_name"`
		Country     string `json:"country"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", false
	}
	if payload.CountryName == "" && payload.Country == "" {
		return "", "", false
	}
	return payload.CountryName, payload.Country, true
}
