// Package e2etest drives a running Terra Tracker server over HTTP the way a browser without JavaScript would.
package e2etest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/terratracker/internal/errors"
)

const (
	choicesURLPath = "/investigation/choices"
	// maxPlaythroughSteps bounds Playthrough in case the server never reaches an ending.
	maxPlaythroughSteps = 100
)

var ErrNoEnding = errors.NewSentinel("playthrough did not reach an ending")

type Client struct {
	client *http.Client
	url    string
}

// NewClient creates an HTTP client with a cookie jar that keeps the session across requests.
func NewClient(url string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, errors.Wrap(err, "create unsafe cookie jar")
	}
	return &Client{
		client: &http.Client{Jar: jar}, //nolint:exhaustruct // defaults follow redirects
		url:    url,
	}, nil
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = c.client.Do(req); err == nil {
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
		return nil, errors.Wrap(err, "create request with context")
	}
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// HxGet fetches a URL the way htmx does, announcing itself with the HX-Request header.
func (c *Client) HxGet(ctx context.Context, urlPath string) (*http.Response, error) {
	req, err := c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request with context")
	}
	req.Header.Set("HX-Request", "true")
	var resp *http.Response
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// GetDoc fetches a URL and returns a goquery document.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	var (
		err  error
		resp *http.Response
	)
	if resp, err = c.Get(ctx, urlPath); err != nil {
		return nil, errors.Wrap(err, "client get")
	}
	return readDoc(resp)
}

// PostForm posts values to urlPath. Set htmx to mimic a request issued by htmx.
func (c *Client) PostForm(
	ctx context.Context,
	urlPath string,
	values neturl.Values,
	htmx bool,
) (*http.Response, error) {
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = c.newRequestWithContext(ctx, http.MethodPost, urlPath, strings.NewReader(values.Encode())); err != nil {
		return nil, errors.Wrap(err, "new request with context")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// newRequestWithContext creates a new HTTP request to the server that respects the given context.
func (c *Client) newRequestWithContext(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	return req, nil
}

// FormValues collects the named inputs of form, CSRF token included, and overrides them with extra.
func FormValues(form *goquery.Selection, extra neturl.Values) neturl.Values {
	values := neturl.Values{}
	form.Find("input[name]").Each(func(_ int, input *goquery.Selection) {
		name, _ := input.Attr("name")
		value, _ := input.Attr("value")
		values.Set(name, value)
	})
	for name, vs := range extra {
		values[name] = vs
	}
	return values
}

// Submit posts form the way a browser without JavaScript would and returns the resulting document.
func (c *Client) Submit(ctx context.Context, form *goquery.Selection, extra neturl.Values) (*goquery.Document, error) {
	action, ok := form.Attr("action")
	if !ok {
		return nil, errors.New("form has no action")
	}
	resp, err := c.PostForm(ctx, action, FormValues(form, extra), false)
	if err != nil {
		return nil, errors.Wrap(err, "post form", slog.String("action", action))
	}
	return readDoc(resp)
}

// SubmitForm submits the form with action formActionURLPath found at formURLPath and returns the response document.
func (c *Client) SubmitForm(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
) (*goquery.Document, error) {
	doc, err := c.GetDoc(ctx, formURLPath)
	if err != nil {
		return nil, errors.Wrap(err, "get document")
	}
	form := doc.Find(fmt.Sprintf("form[action='%s']", formActionURLPath))
	if form.Length() != 1 {
		return nil, errors.New("form not found", slog.String("action", formActionURLPath),
			slog.Int("matches", form.Length()))
	}
	if doc, err = c.Submit(ctx, form, nil); err != nil {
		return nil, errors.Wrap(err, "submit form")
	}
	return doc, nil
}

// Choose submits the dashboard choice whose button text contains text.
func (c *Client) Choose(ctx context.Context, doc *goquery.Document, text string) (*goquery.Document, error) {
	form := doc.Find(fmt.Sprintf("form[action='%s']", choicesURLPath)).FilterFunction(
		func(_ int, s *goquery.Selection) bool {
			return strings.Contains(s.Find("button").Text(), text)
		})
	if form.Length() == 0 {
		return nil, errors.New("choice not found", slog.String("text", text))
	}
	return c.Submit(ctx, form.First(), nil)
}

// Playthrough opens a new case and answers every checkpoint by trying the choices in order until one advances the
// story. It returns the final dashboard and the number of wrong answers given on the way.
func (c *Client) Playthrough(ctx context.Context) (*goquery.Document, int, error) {
	doc, err := c.SubmitForm(ctx, "/", "/investigation/start")
	if err != nil {
		return nil, 0, errors.Wrap(err, "start investigation")
	}
	mistakes := 0
	for range maxPlaythroughSteps {
		forms := doc.Find(fmt.Sprintf("form[action='%s']", choicesURLPath))
		if forms.Length() == 0 {
			return doc, mistakes, nil
		}
		scenario := CurrentScenario(doc)
		for i := range forms.Length() {
			if doc, err = c.Submit(ctx, forms.Eq(i), nil); err != nil {
				return nil, mistakes, errors.Wrap(err, "submit choice", slog.String("scenario", scenario))
			}
			if CurrentScenario(doc) != scenario {
				break
			}
			mistakes++
		}
	}
	return nil, mistakes, ErrNoEnding
}

// CurrentScenario is the scenario key the dashboard in doc shows.
func CurrentScenario(doc *goquery.Document) string {
	key, _ := doc.Find("#dialogue").Attr("data-scenario")
	return key
}

func readDoc(resp *http.Response) (*goquery.Document, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode),
			slog.String("url", resp.Request.URL.String()))
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "create document from reader")
	}
	return doc, nil
}
