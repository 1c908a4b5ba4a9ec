// Package sheets writes value ranges to Google Sheets.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	defaultMaxTries = 4
	retryInterval   = time.Second
)

type Client struct {
	service  *sheets.Service
	maxTries uint
}

type Config struct {
	CredentialsPath string
	CredentialsJSON []byte
	// MaxTries bounds attempts per call on quota and server errors
	MaxTries int
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var opts []option.ClientOption

	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	} else if len(cfg.CredentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	} else {
		return nil, fmt.Errorf("sheets: credentials path or JSON is required")
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create service: %w", err)
	}

	maxTries := uint(defaultMaxTries)
	if cfg.MaxTries > 0 {
		maxTries = uint(cfg.MaxTries)
	}

	return &Client{
		service:  service,
		maxTries: maxTries,
	}, nil
}

func (c *Client) Service() *sheets.Service {
	return c.service
}

// AppendValues inserts rows after the last row of the table found in range_
func (c *Client) AppendValues(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	if c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	call := c.service.Spreadsheets.Values.Append(spreadsheetID, range_, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS")

	return withRetry(ctx, c.maxTries, func() error {
		_, err := call.Context(ctx).Do()
		return err
	})
}

// UpdateValues overwrites the cells starting at range_
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	if c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	call := c.service.Spreadsheets.Values.Update(spreadsheetID, range_, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW")

	return withRetry(ctx, c.maxTries, func() error {
		_, err := call.Context(ctx).Do()
		return err
	})
}

func (c *Client) ClearValues(ctx context.Context, spreadsheetID, range_ string) error {
	if c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	call := c.service.Spreadsheets.Values.Clear(spreadsheetID, range_, &sheets.ClearValuesRequest{})

	return withRetry(ctx, c.maxTries, func() error {
		_, err := call.Context(ctx).Do()
		return err
	})
}

// withRetry retries op while the API reports quota or server errors
func withRetry(ctx context.Context, maxTries uint, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryInterval

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := op()
		if err != nil && !retryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(maxTries))
	return err
}

func retryable(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
}
