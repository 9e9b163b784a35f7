package source

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"time"

	"scorecard/internal/scorecard"
)

// RemoteSource downloads a scorecard artifact over HTTP.
// Requests are bound by the caller's context and by the client timeout.
type RemoteSource struct {
	url    string       // artifact address
	client *http.Client // client configured with the fetch timeout
	format string       // explicit format; empty means infer from the response
}

// Load fetches the artifact and decodes its rows.
//
// The format is taken, in order, from the explicit setting, the URL path extension and the
// response Content-Type. Any status other than 200 is an error.
func (rs *RemoteSource) Load(ctx context.Context) (scorecard.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rs.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv, application/json, application/yaml")

	resp, err := rs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch scorecard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch scorecard: response code=%d status=%s", resp.StatusCode, resp.Status)
	}

	format := rs.format
	if format == "" {
		format = formatFromContentType(resp.Header.Get("Content-Type"))
	}

	table, err := Decode(resp.Body, format)
	if err != nil {
		return nil, fmt.Errorf("fetch scorecard %s: %w", rs.url, err)
	}
	return table, nil
}

func formatFromContentType(value string) string {
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return FormatJSON
	}
	switch mediaType {
	case "text/csv":
		return FormatCSV
	case "application/yaml", "application/x-yaml", "text/yaml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// NewRemoteSource creates a source that downloads the artifact at rawURL.
// An empty format is inferred from the URL path extension, then from the response.
func NewRemoteSource(rawURL string, timeout time.Duration, format string) (*RemoteSource, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("scorecard url: %w", err)
	}
	if format == "" {
		format = FormatFromName(parsed.Path)
	}

	return &RemoteSource{
		url:    rawURL,
		client: &http.Client{Timeout: timeout},
		format: format,
	}, nil
}
