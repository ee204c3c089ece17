package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// UpstreamError reports a failed call to the external donations API
type UpstreamError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("donations api %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("donations api %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// DonationsClient fetches the donation feed exposed by the donations service
type DonationsClient struct {
	client *resty.Client
	url    string
}

func NewDonationsClient(url string, timeout time.Duration) *DonationsClient {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &DonationsClient{client: client, url: url}
}

// FetchDonations returns the upstream JSON body decoded as-is
func (d *DonationsClient) FetchDonations(ctx context.Context) (interface{}, error) {
	var data interface{}

	resp, err := d.client.R().
		ForceContentType("application/json").
		SetContext(ctx).
		SetResult(&data).
		Get(d.url)
	if err != nil {
		return nil, &UpstreamError{URL: d.url, Err: err}
	}
	if resp.IsError() {
		return nil, &UpstreamError{URL: d.url, StatusCode: resp.StatusCode()}
	}

	return data, nil
}
