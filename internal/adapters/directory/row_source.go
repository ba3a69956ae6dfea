package directory

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
)

// RowQuery selects rows of one sheet
type RowQuery struct {
	Sheet string
	State string
	Query string
}

// RowSource returns raw rows of a sheet
type RowSource interface {
	FetchRows(ctx context.Context, q RowQuery) ([]entities.DirectoryRecord, error)
}

// SheetsRowSource reads rows from an Apps Script web app
type SheetsRowSource struct {
	execURL string
	apiKey  string
	client  *jsonClient
}

// NewSheetsRowSource creates a row source for the web app at execURL
func NewSheetsRowSource(execURL, apiKey string, timeout time.Duration) *SheetsRowSource {
	return &SheetsRowSource{execURL: execURL, apiKey: apiKey, client: newJSONClient(timeout)}
}

// FetchRows performs GET <exec>?sheet=..&state=..&query=..&key=..
func (s *SheetsRowSource) FetchRows(ctx context.Context, q RowQuery) ([]entities.DirectoryRecord, error) {
	endpoint, err := s.buildURL(q)
	if err != nil {
		return nil, err
	}

	var rows []entities.DirectoryRecord
	if err := s.client.getJSON(ctx, endpoint, &rows); err != nil {
		return nil, fmt.Errorf("sheet %s: %w", q.Sheet, err)
	}
	return rows, nil
}

func (s *SheetsRowSource) buildURL(q RowQuery) (string, error) {
	if s.execURL == "" {
		return "", fmt.Errorf("apps script exec url is not configured")
	}
	u, err := url.Parse(s.execURL)
	if err != nil {
		return "", fmt.Errorf("invalid apps script exec url: %w", err)
	}

	params := u.Query()
	params.Set("sheet", q.Sheet)
	if q.State != "" {
		params.Set("state", q.State)
	}
	if q.Query != "" {
		params.Set("query", q.Query)
	}
	if s.apiKey != "" {
		params.Set("key", s.apiKey)
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}
