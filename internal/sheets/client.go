package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the Sheets REST API v4 spreadsheet collection.
const DefaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// Client talks to one spreadsheet through the Sheets REST API.
type Client struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL       string
	SpreadsheetID string
	httpClient    *http.Client
}

// NewClient returns a client for spreadsheetID using an authenticated
// httpClient (see Credentials.HTTPClient).
func NewClient(httpClient *http.Client, spreadsheetID string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{BaseURL: DefaultBaseURL, SpreadsheetID: spreadsheetID, httpClient: httpClient}
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sheets API error %d: %s", e.Status, strings.TrimSpace(e.Body))
}

type spreadsheetResponse struct {
	Sheets []struct {
		Properties struct {
			Title string `json:"title"`
		} `json:"properties"`
	} `json:"sheets"`
}

type valueRange struct {
	Range          string  `json:"range,omitempty"`
	MajorDimension string  `json:"majorDimension,omitempty"`
	Values         [][]any `json:"values"`
}

// SheetTitles lists the worksheet titles of the spreadsheet.
func (c *Client) SheetTitles(ctx context.Context) ([]string, error) {
	var resp spreadsheetResponse
	if err := c.do(ctx, http.MethodGet, c.endpoint("", "fields=sheets.properties.title"), nil, &resp); err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		titles = append(titles, s.Properties.Title)
	}
	return titles, nil
}

// AddSheet creates a worksheet named title.
func (c *Client) AddSheet(ctx context.Context, title string) error {
	body := map[string]any{
		"requests": []any{
			map[string]any{"addSheet": map[string]any{"properties": map[string]any{"title": title}}},
		},
	}
	return c.do(ctx, http.MethodPost, c.endpoint(":batchUpdate", ""), body, nil)
}

// GetValues returns every populated cell of the worksheet as strings.
func (c *Client) GetValues(ctx context.Context, sheet string) ([][]string, error) {
	var vr valueRange
	if err := c.do(ctx, http.MethodGet, c.endpoint("/values/"+url.PathEscape(sheet), ""), nil, &vr); err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(vr.Values))
	for _, r := range vr.Values {
		row := make([]string, len(r))
		for i, v := range r {
			row[i] = cellString(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ClearValues empties the worksheet but keeps it.
func (c *Client) ClearValues(ctx context.Context, sheet string) error {
	return c.do(ctx, http.MethodPost, c.endpoint("/values/"+url.PathEscape(sheet)+":clear", ""), map[string]any{}, nil)
}

// UpdateValues writes rows starting at A1. Values are stored as entered.
func (c *Client) UpdateValues(ctx context.Context, sheet string, rows [][]string) error {
	rng := sheet + "!A1"
	vr := valueRange{Range: rng, MajorDimension: "ROWS", Values: make([][]any, 0, len(rows))}
	for _, r := range rows {
		row := make([]any, len(r))
		for i, v := range r {
			row[i] = v
		}
		vr.Values = append(vr.Values, row)
	}
	return c.do(ctx, http.MethodPut, c.endpoint("/values/"+url.PathEscape(rng), "valueInputOption=RAW"), vr, nil)
}

func (c *Client) endpoint(path, query string) string {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u := strings.TrimRight(base, "/") + "/" + url.PathEscape(c.SpreadsheetID) + path
	if query != "" {
		u += "?" + query
	}
	return u
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheets API request failed: %w", err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: string(data)}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding sheets response: %w", err)
	}
	return nil
}

// cellString renders a cell the way it would appear in a CSV export. Whole
// numbers lose their decimal point.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "1"
		}
		return "0"
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprint(x)
	}
}
