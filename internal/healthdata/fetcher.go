/*
Package healthdata fetches simulated daily activity data from a remote CSV
endpoint and samples one row to stand in for today's reading.
*/
package healthdata

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"AINutritionist/internal/activity"
	"AINutritionist/internal/metrics"
	"AINutritionist/internal/utility"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxBodyBytes = 10 << 20

	stepsColumn    = "steps"
	caloriesColumn = "calories"
)

var (
	// ErrNoRows is returned when the dataset has a header but no records.
	ErrNoRows = errors.New("dataset contains no rows")

	// ErrMissingColumn is returned when the header lacks steps or calories.
	ErrMissingColumn = errors.New("dataset is missing a required column")

	// ErrBodyTooLarge is returned when the dataset exceeds the size limit.
	ErrBodyTooLarge = errors.New("dataset exceeds the size limit")
)

// StatusError reports a non-200 response from the data endpoint.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.StatusCode)
}

// Picker chooses a row index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	IntN(n int) int
}

type globalPicker struct{}

func (globalPicker) IntN(n int) int { return rand.IntN(n) }

// Config holds the endpoint settings for the fetcher.
type Config struct {
	// URL is the full CSV endpoint, including any embedded access key.
	URL string

	// Timeout bounds a single request. Zero means the package default.
	Timeout time.Duration
}

// Fetcher retrieves one random reading per call.
type Fetcher struct {
	url          string
	httpClient   *http.Client
	picker       Picker
	maxBodyBytes int64
	log          zerolog.Logger
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.httpClient = c }
}

// WithPicker replaces the random row selection, mainly for tests.
func WithPicker(p Picker) Option {
	return func(f *Fetcher) { f.picker = p }
}

// WithMaxBodyBytes caps the accepted response size. Non-positive values are ignored.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

// NewFetcher creates a Fetcher for the configured endpoint.
func NewFetcher(cfg Config, logger zerolog.Logger, opts ...Option) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	f := &Fetcher{
		url:          cfg.URL,
		httpClient:   &http.Client{Timeout: timeout},
		picker:       globalPicker{},
		maxBodyBytes: defaultMaxBodyBytes,
		log:          logger.With().Str("component", "healthdata").Logger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs a single best-effort request. It never retries; any
// failure yields an Outcome with a zero Reading and the reason.
func (f *Fetcher) Fetch(ctx context.Context) utility.Outcome[activity.Reading] {
	start := time.Now()

	reading, status, err := f.fetch(ctx)
	metrics.RecordUpstreamCall("health_data", status, time.Since(start))

	if err != nil {
		f.log.Error().Err(err).Msg("Failed to fetch health data")
		return utility.Failure(activity.Reading{}, err)
	}

	f.log.Info().Msg("Fetched health data reading")
	return utility.Success(reading)
}

func (f *Fetcher) fetch(ctx context.Context) (activity.Reading, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return activity.Reading{}, "error", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return activity.Reading{}, "error", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return activity.Reading{}, status, &StatusError{StatusCode: resp.StatusCode}
	}

	// One byte past the limit tells an oversized body apart from one that fits exactly.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return activity.Reading{}, status, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.maxBodyBytes {
		return activity.Reading{}, status, fmt.Errorf("%w of %d bytes", ErrBodyTooLarge, f.maxBodyBytes)
	}

	rows, err := parseCSV(bytes.NewReader(body))
	if err != nil {
		return activity.Reading{}, status, err
	}

	reading, err := rows.pick(f.picker)
	return reading, status, err
}

// table is a parsed dataset with the column positions we care about.
type table struct {
	records     [][]string
	stepsIdx    int
	caloriesIdx int
}

func parseCSV(r io.Reader) (*table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV header: %w", err)
	}

	t := &table{stepsIdx: -1, caloriesIdx: -1}
	for i, name := range header {
		switch normalizeColumn(name) {
		case stepsColumn:
			t.stepsIdx = i
		case caloriesColumn:
			t.caloriesIdx = i
		}
	}
	if t.stepsIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, stepsColumn)
	}
	if t.caloriesIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, caloriesColumn)
	}

	t.records, err = reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV body: %w", err)
	}
	if len(t.records) == 0 {
		return nil, ErrNoRows
	}
	return t, nil
}

func (t *table) pick(p Picker) (activity.Reading, error) {
	row := t.records[p.IntN(len(t.records))]

	steps, err := parseCell(row, t.stepsIdx)
	if err != nil {
		return activity.Reading{}, fmt.Errorf("invalid %s value: %w", stepsColumn, err)
	}
	calories, err := parseCell(row, t.caloriesIdx)
	if err != nil {
		return activity.Reading{}, fmt.Errorf("invalid %s value: %w", caloriesColumn, err)
	}

	return activity.Reading{Steps: steps, Calories: calories}, nil
}

// parseCell returns nil for an empty cell. NaN and infinities are rejected.
func parseCell(row []string, idx int) (*float64, error) {
	if idx >= len(row) {
		return nil, nil
	}
	raw := strings.TrimSpace(row[idx])
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("non-finite number %q", raw)
	}
	return &v, nil
}

func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ToLower(strings.TrimSpace(name))
}
