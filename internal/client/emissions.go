package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"freightcarbon/internal/errs"
)

// Client single blocking call to the external emissions-calculation
// endpoint. No retry of any kind: a failed call fails the request.
type Client struct {
	APIURL string
	client *http.Client
}

func NewClient(apiURL string, timeout time.Duration) (*Client, error) {
	if apiURL == "" {
		return nil, errors.New("api url is empty")
	}
	return &Client{
		APIURL: apiURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Send posts the XML payload and returns the raw response body. Non-success
// status codes become ExternalServiceError with the body kept verbatim.
func (c *Client) Send(ctx context.Context, payload string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, strings.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("err during creating a request with context: %s", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request error: %s", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Error().Msg("couldn't close a body")
			return
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("err during reading of a response: %s", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &errs.ExternalServiceError{Status: resp.StatusCode, Body: string(body)}
	}

	return string(body), nil
}
