package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"
)

// RateSource fetches exchange rates for a set of ISO codes against the
// reference currency. Rates are expressed as units of the target currency
// per 1 unit of the reference currency.
type RateSource interface {
	Latest(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

// FixerConfig configures the exchange-rate provider client.
type FixerConfig struct {
	APIKey  string
	BaseURL string        // default https://data.fixer.io/api
	Timeout time.Duration // http client timeout
}

// FixerClient implements RateSource over the Fixer wire format. The provider
// response is validated against a JSON schema before decoding: an external
// contract is never trusted as-is.
type FixerClient struct {
	cfg    FixerConfig
	http   *http.Client
	logger *slog.Logger
}

// Response contract: success flag plus an object of numeric rates. Anything
// else is rejected before decoding.
const ratesSchema = `{
	"type": "object",
	"required": ["success"],
	"properties": {
		"success": {"type": "boolean"},
		"rates": {
			"type": "object",
			"additionalProperties": {"type": "number"}
		}
	}
}`

var compiledRatesSchema = jsonschema.MustCompileString("rates.json", ratesSchema)

func NewFixerClient(cfg FixerConfig, logger *slog.Logger) *FixerClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://data.fixer.io/api"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FixerClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Latest requests current rates for the given ISO codes in one batched call.
// The free Fixer plan always uses EUR as base, which matches the reference
// currency of this pipeline.
func (c *FixerClient) Latest(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("rate provider api key is not configured")
	}
	if len(symbols) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	rid := uuid.New().String()
	start := time.Now()

	upper := make([]string, 0, len(symbols))
	for _, s := range symbols {
		upper = append(upper, strings.ToUpper(strings.TrimSpace(s)))
	}
	sort.Strings(upper)

	q := url.Values{}
	q.Set("access_key", c.cfg.APIKey)
	q.Set("symbols", strings.Join(upper, ","))
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/latest?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	c.logger.Info("rates.fetch", "req_id", rid, "symbols", strings.Join(upper, ","))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate provider http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("rates.response_body_close_error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("rate provider status %d", resp.StatusCode)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode rate response: %w", err)
	}
	if err := compiledRatesSchema.Validate(decoded); err != nil {
		return nil, fmt.Errorf("rate response violates contract: %w", err)
	}

	var body struct {
		Success bool               `json:"success"`
		Rates   map[string]float64 `json:"rates"`
		Error   struct {
			Code int    `json:"code"`
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode rate response: %w", err)
	}
	if !body.Success {
		return nil, fmt.Errorf("rate provider reported failure: code=%d type=%s", body.Error.Code, body.Error.Type)
	}

	table := make(map[string]decimal.Decimal, len(body.Rates))
	for code, rate := range body.Rates {
		table[code] = decimal.NewFromFloat(rate)
	}

	c.logger.Info("rates.fetch.ok",
		"req_id", rid,
		"rates", len(table),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return table, nil
}
