package jobboard

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultAPIURL    = "https://api.jobboard.dev"
	defaultUserAgent = "jobradar/job-radar (github.com/jobradar/jobradar)"

	// Upstream boards throttle aggressively. One request per second with a
	// small burst keeps the client polite even when the fetcher retries.
	defaultRequestsPerSecond = 1
	defaultBurst             = 2
)

// Client talks to a job-board aggregation API.
type Client struct {
	logger  *zap.Logger
	limiter *rate.Limiter

	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	Debug      bool
}

func New(logger *zap.Logger) *Client {
	return &Client{
		APIURL: defaultAPIURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:   rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurst),
		logger:    logger,
		UserAgent: defaultUserAgent,
	}
}

// SetRateLimit overrides the politeness limit applied before every request.
func (c *Client) SetRateLimit(reqPerSec float64, burst int) {
	if reqPerSec <= 0 || burst <= 0 {
		return
	}
	c.limiter = rate.NewLimiter(rate.Limit(reqPerSec), burst)
}
