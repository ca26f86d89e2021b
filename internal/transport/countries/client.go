// Package countries fetches the reference country list from a REST
// countries endpoint.
package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
)

const DefaultURL = "https://restcountries.com/v2/all?fields=name,alpha3Code"

type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, httpClient *http.Client) *Client {
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{url: url, http: httpClient}
}

type countryPayload struct {
	Name       string `json:"name"`
	Alpha3Code string `json:"alpha3Code"`
}

func (c *Client) FetchCountries(ctx context.Context) ([]domain.Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("countries endpoint returned %d: %s", resp.StatusCode, body)
	}

	var payload []countryPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode countries: %w", err)
	}
	out := make([]domain.Country, 0, len(payload))
	for _, p := range payload {
		out = append(out, domain.Country{Name: p.Name, ISOCode: p.Alpha3Code, IsValid: true})
	}
	return out, nil
}
