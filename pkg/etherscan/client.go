// Package etherscan reads account history from an Etherscan-compatible explorer API.
package etherscan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/screwyprof/dexactivity/pkg/remote"
)

// Service is the name remote faults of this client are reported under
const Service = "etherscan"

// DefaultBaseURL is the Ethereum mainnet explorer
const DefaultBaseURL = "https://api.etherscan.io"

// DefaultRate matches the free tier limit of 5 calls per second
const DefaultRate = rate.Limit(5)

// Sentinel errors for failure cases
var (
	ErrLimiterWait      = errors.New("waiting for rate limiter failed")
	ErrRequestFailed    = errors.New("request failed")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrDecodeFailed     = errors.New("decoding response failed")
	ErrAPIError         = errors.New("api returned an error")
)

// Sort is the block order of returned transactions
type Sort string

const (
	SortAsc  Sort = "asc"
	SortDesc Sort = "desc"
)

// Client represents an explorer API client
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

// Option configures the Client
type Option func(*Client)

// WithRate limits outgoing requests to r per second
func WithRate(r rate.Limit) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, 1) }
}

// NewClient creates a new explorer client. By default requests are limited to DefaultRate.
func NewClient(httpClient *http.Client, baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(DefaultRate, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TxListRequest represents parameters for the normal transaction list of an address.
// Both block bounds are inclusive.
type TxListRequest struct {
	Address    string
	StartBlock uint64
	EndBlock   uint64
	Sort       Sort
}

// Transaction is a normal transaction as listed by the explorer.
// Numeric fields are encoded as decimal strings.
type Transaction struct {
	BlockNumber string `json:"blockNumber"`
	TimeStamp   string `json:"timeStamp"`
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	IsError     string `json:"isError"`
}

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// NormalTransactions retrieves the normal transactions sent or received by an address.
// A "0" status, including an address with no transactions, is reported as ErrAPIError.
func (c *Client) NormalTransactions(ctx context.Context, req TxListRequest) ([]Transaction, error) {
	txs, err := c.normalTransactions(ctx, req)
	return txs, remote.Wrap(Service, err)
}

// CountTransactions returns the number of normal transactions listed for an address
func (c *Client) CountTransactions(ctx context.Context, req TxListRequest) (int, error) {
	txs, err := c.NormalTransactions(ctx, req)
	if err != nil {
		return 0, err
	}
	return len(txs), nil
}

func (c *Client) normalTransactions(ctx context.Context, req TxListRequest) ([]Transaction, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLimiterWait, err)
	}

	sort := req.Sort
	if sort == "" {
		sort = SortDesc
	}

	q := url.Values{}
	q.Set("module", "account")
	q.Set("action", "txlist")
	q.Set("address", req.Address)
	q.Set("startblock", strconv.FormatUint(req.StartBlock, 10))
	q.Set("endblock", strconv.FormatUint(req.EndBlock, 10))
	q.Set("sort", string(sort))
	q.Set("apikey", c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}

	if out.Status != "1" {
		return nil, fmt.Errorf("%w: %s: %s", ErrAPIError, out.Message, resultMessage(out.Result))
	}

	var txs []Transaction
	if err := json.Unmarshal(out.Result, &txs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}

	return txs, nil
}

// resultMessage renders the result field of a failed call, which is a string
// for rate limit and key errors and an empty list for empty histories
func resultMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// redact strips the query string, and with it the API key, from transport errors
func redact(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	u, perr := url.Parse(urlErr.URL)
	if perr != nil {
		return urlErr.Err
	}
	u.RawQuery = ""
	return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
}

