package vegetation

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/myrjola/terratracker/internal/errors"
	"github.com/tidwall/gjson"
)

// Region is a point of interest for the MODIS subset API.
type Region struct {
	Latitude  float64
	Longitude float64
	StartYear int
	EndYear   int
}

// AmazonBasin is the region the investigation is about.
var AmazonBasin = Region{Latitude: -3, Longitude: -60, StartYear: 2018, EndYear: 2023} //nolint:mnd // case location

const (
	defaultScale   = 0.0001
	requestTimeout = 4 * time.Second
	maxBodyBytes   = 4 << 20
)

var ErrUnusablePayload = errors.NewSentinel("unusable NDVI payload")

// Client fetches NDVI from a MODIS subset endpoint (ORNL DAAC JSON shape) and falls back to [Demo].
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a client. An empty baseURL disables outbound calls and always serves the demo series.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout}, //nolint:exhaustruct // defaults are fine
		baseURL:    baseURL,
		logger:     logger.With(slog.String("component", "vegetation")),
	}
}

// Series returns the NDVI series for region. It never fails: any problem with the remote data is logged and the
// demo series is substituted once.
func (c *Client) Series(ctx context.Context, region Region) Series {
	if c.baseURL == "" {
		return Demo()
	}
	points, err := c.fetch(ctx, region)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "falling back to demo NDVI series", errors.SlogError(err))
		return Demo()
	}
	return Series{Points: points, Source: SourceNASA}
}

func (c *Client) fetch(ctx context.Context, region Region) ([]Point, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}
	query := endpoint.Query()
	query.Set("latitude", strconv.FormatFloat(region.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(region.Longitude, 'f', -1, 64))
	query.Set("startDate", modisDate(region.StartYear, 1))
	query.Set("endDate", modisDate(region.EndYear, 365)) //nolint:mnd // last day of year
	query.Set("kmAboveBelow", "0")
	query.Set("kmLeftRight", "0")
	endpoint.RawQuery = query.Encode()

	var req *http.Request
	if req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil); err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	var resp *http.Response
	if resp, err = c.httpClient.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}

	var body []byte
	if body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return parseSubset(body)
}

// parseSubset averages the scaled NDVI samples of a MODIS subset response per calendar year.
func parseSubset(body []byte) ([]Point, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.Wrap(ErrUnusablePayload, "invalid JSON")
	}
	doc := gjson.ParseBytes(body)
	scale := defaultScale
	if s := doc.Get("scale"); s.Exists() && s.Float() > 0 {
		scale = s.Float()
	}

	type accumulator struct {
		sum   float64
		count int
	}
	byYear := map[int]*accumulator{}
	doc.Get("subset").ForEach(func(_, sample gjson.Result) bool {
		date := sample.Get("calendar_date").String()
		if len(date) < 4 { //nolint:mnd // YYYY prefix
			return true
		}
		year, err := strconv.Atoi(date[:4])
		if err != nil {
			return true
		}
		sample.Get("data").ForEach(func(_, raw gjson.Result) bool {
			value := raw.Float() * scale
			// MODIS fill values fall outside the physical NDVI range.
			if value < -1 || value > 1 {
				return true
			}
			acc, ok := byYear[year]
			if !ok {
				acc = &accumulator{}
				byYear[year] = acc
			}
			acc.sum += value
			acc.count++
			return true
		})
		return true
	})

	if len(byYear) == 0 {
		return nil, errors.Wrap(ErrUnusablePayload, "no samples")
	}
	points := make([]Point, 0, len(byYear))
	for year, acc := range byYear {
		points = append(points, Point{Year: year, NDVI: acc.sum / float64(acc.count)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points, nil
}

func modisDate(year, dayOfYear int) string {
	return "A" + strconv.Itoa(year) + leftPad(strconv.Itoa(dayOfYear), 3) //nolint:mnd // AYYYYDDD
}

func leftPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
