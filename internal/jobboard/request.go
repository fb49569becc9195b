package jobboard

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"
)

// searchResponse is the wire shape of a board search reply. Jobs stay untyped
// here: boards disagree on optional columns, and the cleaner decides what
// survives.
type searchResponse struct {
	Jobs  []map[string]any `json:"jobs"`
	Found int              `json:"found"`
}

// getItems makes one rate-limited GET request and parses the reply.
func (c *Client) getItems(ctx context.Context, rawURL string, q url.Values) (*searchResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	req.URL.RawQuery = q.Encode()

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	response, err := c.parseSearchResponse(resp)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got response from the board",
		zap.Int("jobs", len(response.Jobs)),
		zap.Int("found", response.Found),
	)

	return response, nil
}

func (c *Client) parseSearchResponse(resp *http.Response) (*searchResponse, error) {
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var body io.ReadCloser
	var err error
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		body, err = gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer body.Close()
	default:
		body = resp.Body
		defer body.Close()
	}

	var response *searchResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, err
	}

	return response, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)
}
