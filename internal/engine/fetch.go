package engine

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/microcosm-cc/bluemonday"
	"github.com/saintfish/chardet"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/logging"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/resilience"
)

const (
	// MaxBodySize caps how much of a page is read
	MaxBodySize = 2 << 20
	userAgent   = "ide-browser/1.0"
)

// Config configures a FetchEngine
type Config struct {
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// FailureThreshold consecutive failed fetches of a host pause fetching it for FailureCooldown
	FailureThreshold uint32
	FailureCooldown  time.Duration
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() Config {
	return Config{
		Timeout:      10 * time.Second,
		RetryMax:     2,
		RetryWaitMin: 200 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,

		FailureThreshold: 3,
		FailureCooldown:  30 * time.Second,
	}
}

// Page describes the last completed load
type Page struct {
	URL       string    `json:"url"`
	Status    int       `json:"status"`
	MIME      string    `json:"mime"`
	Charset   string    `json:"charset,omitempty"`
	Title     string    `json:"title,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// FetchEngine loads pages over HTTP in the background
type FetchEngine struct {
	client   *resty.Client
	breakers *resilience.Group
	policy   *bluemonday.Policy
	onTitle  func(url, title string)
	logger   *logging.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup

	mu   sync.Mutex
	gen  uint64  // Protected by mu
	zoom float64 // Protected by mu
	last *Page   // Protected by mu
}

// NewFetchEngine creates an engine. onTitle is called from a background
// goroutine after each completed HTML load.
func NewFetchEngine(cfg Config, onTitle func(url, title string), logger *logging.Logger) *FetchEngine {
	if logger == nil {
		logger = logging.NewNop()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = nil // Disable logging

	client := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	logger = logger.Named("engine")
	breakers := resilience.NewGroup(resilience.Settings{
		Threshold: cfg.FailureThreshold,
		Cooldown:  cfg.FailureCooldown,
		OnStateChange: func(host string, from, to resilience.State) {
			logger.Info("Host fetch circuit changed",
				zap.String("host", host),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &FetchEngine{
		client:   client,
		breakers: breakers,
		policy:   bluemonday.StrictPolicy(),
		onTitle:  onTitle,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		zoom:     1,
	}
}

// Load starts fetching target and supersedes any load in flight
func (e *FetchEngine) Load(target string) {
	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.mu.Unlock()

	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		e.logger.Debug("Not fetching non-http url", zap.String("url", target))
		e.complete(gen, &Page{URL: target, FetchedAt: time.Now()})
		return
	}

	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		e.fetch(gen, u.Host, target)
	}()
}

// SetZoom records the zoom level
func (e *FetchEngine) SetZoom(level float64) {
	e.mu.Lock()
	e.zoom = level
	e.mu.Unlock()
}

// Zoom returns the last zoom level set
func (e *FetchEngine) Zoom() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.zoom
}

// OpenDevTools reports false, the engine has no developer tools
func (e *FetchEngine) OpenDevTools() bool {
	return false
}

// LastPage returns the result of the most recent completed load
func (e *FetchEngine) LastPage() (Page, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return Page{}, false
	}
	return *e.last, true
}

// Wait blocks until loads in flight have finished
func (e *FetchEngine) Wait() {
	e.inflight.Wait()
}

// Close cancels loads in flight and waits for them
func (e *FetchEngine) Close() error {
	e.cancel()
	e.inflight.Wait()
	return nil
}

// FailingHosts returns the hosts whose fetches are currently paused
func (e *FetchEngine) FailingHosts() []string {
	return e.breakers.Open()
}

func (e *FetchEngine) fetch(gen uint64, host, target string) {
	done, err := e.breakers.Get(host).Allow()
	if err != nil {
		e.logger.Debug("Skipping fetch of failing host", zap.String("url", target), zap.String("host", host))
		e.complete(gen, &Page{URL: target, FetchedAt: time.Now()})
		return
	}

	resp, err := e.client.R().
		SetContext(e.ctx).
		SetDoNotParseResponse(true).
		Get(target)
	if err != nil {
		if e.ctx.Err() != nil {
			err = context.Canceled
		}
		done(err)
		if e.ctx.Err() == nil {
			e.logger.Warn("Page fetch failed", zap.String("url", target), zap.Error(err))
		}
		return
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		done(fmt.Errorf("status %d", resp.StatusCode()))
	} else {
		done(nil)
	}

	raw := resp.RawBody()
	defer raw.Close()

	body, err := io.ReadAll(io.LimitReader(raw, MaxBodySize))
	if err != nil {
		e.logger.Warn("Page read failed", zap.String("url", target), zap.Error(err))
		return
	}

	contentType := resp.Header().Get("Content-Type")
	page := &Page{
		URL:       target,
		Status:    resp.StatusCode(),
		MIME:      mimetype.Detect(body).String(),
		FetchedAt: time.Now(),
	}

	if isHTML(body, contentType) {
		title, cs := e.extractTitle(body, contentType)
		page.Title = title
		page.Charset = cs
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		e.logger.Debug("Page returned error status", zap.String("url", target), zap.Int("status", resp.StatusCode()))
	}
	e.complete(gen, page)
}

// complete publishes page unless a newer load started meanwhile
func (e *FetchEngine) complete(gen uint64, page *Page) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.last = page
	e.mu.Unlock()

	if page.Title != "" && e.onTitle != nil {
		e.onTitle(page.URL, page.Title)
	}
}

func isHTML(body []byte, contentType string) bool {
	if mimetype.Detect(body).Is("text/html") {
		return true
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "text/html")
}

func (e *FetchEngine) extractTitle(body []byte, contentType string) (string, string) {
	reader, cs := decode(body, contentType)

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return "", cs
	}

	title := doc.Find("title").First().Text()
	title = html.UnescapeString(e.policy.Sanitize(title))
	return strings.Join(strings.Fields(title), " "), cs
}

// decode returns a UTF-8 reader over body and the charset used
func decode(body []byte, contentType string) (io.Reader, string) {
	_, name, certain := charset.DetermineEncoding(body, contentType)
	if !certain && !utf8.Valid(body) {
		if res, err := chardet.NewHtmlDetector().DetectBest(body); err == nil && res.Confidence >= 50 {
			name = strings.ToLower(res.Charset)
		}
	}

	r, err := charset.NewReaderLabel(name, bytes.NewReader(body))
	if err != nil {
		return bytes.NewReader(body), "utf-8"
	}
	return r, name
}
