// Package culler finds dead links by checking their URLs over HTTP.
package culler

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nikbrunner/linkdeck/internal/model"
)

// Status represents the health status of a URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, connection refused, etc.
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	default:
		return "unreachable"
	}
}

// Result holds the check result for a single link.
type Result struct {
	Link       model.LinkRef
	Status     Status
	StatusCode int    // HTTP status code (0 if connection failed)
	Error      string // Error message for unreachable URLs
}

// ProgressFunc is called after each URL is checked.
// completed is the number of URLs checked so far, total is the total count.
type ProgressFunc func(completed, total int)

const (
	DefaultConcurrency = 10
	DefaultTimeout     = 10 * time.Second
	maxRedirects       = 10
)

// Params holds parameters for creating a new Checker.
type Params struct {
	Concurrency    int           // optional, DefaultConcurrency if < 1
	Timeout        time.Duration // optional, DefaultTimeout if zero
	ExcludeDomains []string      // 404s on these domains read as "possibly private"
	Client         *http.Client  // optional, built from Timeout if nil
	Logger         *zap.Logger   // optional, no-op if nil
}

// Checker checks link URLs with a bounded number of workers.
type Checker struct {
	concurrency int
	exclude     map[string]bool
	client      *http.Client
	logger      *zap.Logger
}

// New creates a Checker.
func New(params Params) *Checker {
	concurrency := params.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := params.Client
	if client == nil {
		client = &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	exclude := make(map[string]bool, len(params.ExcludeDomains))
	for _, domain := range params.ExcludeDomains {
		exclude[strings.ToLower(domain)] = true
	}

	return &Checker{
		concurrency: concurrency,
		exclude:     exclude,
		client:      client,
		logger:      logger.Named("culler"),
	}
}

// CheckURLs checks links with a one-off Checker. A concurrency below 1
// checks one link at a time.
func CheckURLs(ctx context.Context, links []model.LinkRef, concurrency int, timeout time.Duration, excludeDomains []string, onProgress ProgressFunc) []Result {
	if concurrency < 1 {
		concurrency = 1
	}
	c := New(Params{Concurrency: concurrency, Timeout: timeout, ExcludeDomains: excludeDomains})
	return c.Check(ctx, links, onProgress)
}

// Check checks all links concurrently and returns results in input order.
// Links not yet checked when ctx is cancelled are reported as unreachable.
func (c *Checker) Check(ctx context.Context, links []model.LinkRef, onProgress ProgressFunc) []Result {
	if len(links) == 0 {
		return nil
	}

	// Suppress noisy HTTP client logging (protocol errors, unsolicited responses, etc.)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	results := make([]Result, len(links))
	jobs := make(chan int, len(links))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	for w := 0; w < c.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = Result{Link: links[idx], Status: Unreachable, Error: "Cancelled"}
				} else {
					results[idx] = c.checkURL(ctx, links[idx])
				}

				if onProgress != nil {
					progressMu.Lock()
					completed++
					onProgress(completed, len(links))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range links {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	c.logger.Info("links checked",
		zap.Int("total", len(results)),
		zap.Int("dead", len(Filter(results, Dead))),
		zap.Int("unreachable", len(Filter(results, Unreachable))),
	)
	return results
}

// Filter returns the results with the given status.
func Filter(results []Result, status Status) []Result {
	var out []Result
	for _, r := range results {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

// checkURL checks a single link: HEAD first, GET when HEAD fails.
func (c *Checker) checkURL(ctx context.Context, link model.LinkRef) Result {
	result := Result{Link: link}
	rawURL := link.Link.URL

	resp, err := c.do(ctx, http.MethodHead, rawURL)
	if err != nil {
		// Some servers don't support HEAD
		resp, err = c.do(ctx, http.MethodGet, rawURL)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			c.logger.Debug("link unreachable", zap.String("url", rawURL), zap.Error(err))
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == 404 || resp.StatusCode == 410:
		// Check if this domain is excluded (e.g., private repos)
		if isExcludedDomain(rawURL, c.exclude) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
			c.logger.Debug("link dead", zap.String("url", rawURL), zap.Int("status", resp.StatusCode))
		}
	default:
		// Other errors (500, 403, etc.) - treat as unreachable
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	return result
}

func (c *Checker) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "linkdeck-culler/1.0")
	return c.client.Do(req)
}

// isExcludedDomain checks if the URL's domain is in the exclude list.
func isExcludedDomain(rawURL string, excludeMap map[string]bool) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if excludeMap[host] {
		return true
	}
	// "api.github.com" matches "github.com"
	for domain := range excludeMap {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context canceled"):
		return "Cancelled"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}
