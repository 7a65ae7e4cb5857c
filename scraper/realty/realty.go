package realty

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/MatthewIrwin123/Parramatta-property-listings/config"
	"github.com/MatthewIrwin123/Parramatta-property-listings/models"
	"github.com/MatthewIrwin123/Parramatta-property-listings/utils"
)

const (
	maxBodyBytes   = 8 << 20
	errorBodyBytes = 1000
)

// ErrUnexpectedStatus is returned when the listing API answers with anything but 200.
var ErrUnexpectedStatus = errors.New("listing API request failed")

// Client talks to a RapidAPI-hosted real-estate listing endpoint.
type Client struct {
	endpoint string
	key      string
	host     string
	http     *retryablehttp.Client
	logger   *utils.Logger
}

// New creates a Client from the application configuration.
func New(cfg *config.Config, logger *utils.Logger) *Client {
	return &Client{
		endpoint: cfg.ListingURL(),
		key:      cfg.RapidAPIKey,
		host:     cfg.RapidAPIHost,
		http:     utils.NewHTTPClient(cfg.APITimeout, cfg.APIMaxRetries, logger),
		logger:   logger,
	}
}

// SearchParams encodes the search criteria as listing API query parameters.
func SearchParams(c models.SearchCriteria) url.Values {
	q := url.Values{}
	q.Set("suburb", c.Suburb)
	q.Set("state", c.State)
	q.Set("price_max", strconv.Itoa(c.MaxPrice))
	q.Set("bedrooms_min", strconv.Itoa(c.MinBeds))
	q.Set("bedrooms_max", strconv.Itoa(c.MaxBeds))
	q.Set("carspaces_min", strconv.Itoa(c.MinCarSpaces))
	q.Set("limit", strconv.Itoa(c.Limit))
	q.Set("offset", "0")
	return q
}

// Search issues the single listing request and returns the raw response body.
func (c *Client) Search(ctx context.Context, criteria models.SearchCriteria) ([]byte, error) {
	u := c.endpoint + "?" + SearchParams(criteria).Encode()
	c.logger.Info("[realty] Requesting %s", u)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("realty: build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-rapidapi-key", c.key)
	req.Header.Set("x-rapidapi-host", c.host)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("realty: request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Info("[realty] Status: %d", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyBytes))
		c.logger.Error("[realty] Response text (truncated): %s", snippet)
		return nil, fmt.Errorf("%w: status %d (check host, key and params)", ErrUnexpectedStatus, resp.StatusCode)
	}

	return readAllLimit(resp.Body, maxBodyBytes)
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("realty: read body: %w", err)
	}
	if int64(len(b)) > limit {
		return nil, errors.New("realty: payload too large")
	}
	return b, nil
}
