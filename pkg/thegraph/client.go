// Package thegraph queries the Uniswap v2 subgraph for recent transactions.
package thegraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/screwyprof/dexactivity/pkg/remote"
)

// Service is the name remote faults of this client are reported under
const Service = "thegraph"

// DefaultURL is the hosted Uniswap v2 subgraph
const DefaultURL = "https://api.thegraph.com/subgraphs/name/uniswap/uniswap-v2"

// Limits enforced by the hosted graph node. Requests above them silently
// return fewer or zero results.
const (
	MaxFirst = 1000
	MaxSkip  = 5000
)

// Sentinel errors for failure cases
var (
	ErrRequestFailed    = errors.New("request failed")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrDecodeFailed     = errors.New("decoding response failed")
	ErrQueryFailed      = errors.New("query returned errors")
	ErrMissingData      = errors.New("response has no transactions")
)

const transactionsQuery = `{
  transactions(first: %d, skip: %d, orderBy: timestamp, orderDirection: desc) {
    id
    blockNumber
    timestamp
    mints {
      id
    }
    burns {
      id
    }
    swaps {
      id
    }
  }
}`

// Client represents a subgraph client
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient creates a new subgraph client with a custom HTTP client and endpoint URL
func NewClient(httpClient *http.Client, url string) *Client {
	return &Client{
		httpClient: httpClient,
		url:        url,
	}
}

// TransactionsRequest represents parameters for getting transactions
type TransactionsRequest struct {
	First int
	Skip  int
}

// Ref is an identifier-only reference to a mint, burn or swap event
type Ref struct {
	ID string `json:"id"`
}

// Transaction represents a Uniswap transaction from the subgraph.
// BigInt fields are encoded as strings by the graph node.
type Transaction struct {
	ID          string `json:"id"`
	BlockNumber string `json:"blockNumber"`
	Timestamp   string `json:"timestamp"`
	Mints       []Ref  `json:"mints"`
	Burns       []Ref  `json:"burns"`
	Swaps       []Ref  `json:"swaps"`
}

type graphRequest struct {
	Query string `json:"query"`
}

type graphError struct {
	Message string `json:"message"`
}

type graphResponse struct {
	Data *struct {
		Transactions *[]Transaction `json:"transactions"`
	} `json:"data"`
	Errors []graphError `json:"errors"`
}

// Transactions retrieves the most recent transactions ordered by descending timestamp.
// Every failure is reported as a remote fault.
func (c *Client) Transactions(ctx context.Context, req TransactionsRequest) ([]Transaction, error) {
	txs, err := c.transactions(ctx, req)
	return txs, remote.Wrap(Service, err)
}

func (c *Client) transactions(ctx context.Context, req TransactionsRequest) ([]Transaction, error) {
	body, err := json.Marshal(graphRequest{Query: fmt.Sprintf(transactionsQuery, req.First, req.Skip)})
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var out graphResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}

	if len(out.Errors) > 0 {
		msgs := make([]string, len(out.Errors))
		for i, e := range out.Errors {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("%w: %s", ErrQueryFailed, strings.Join(msgs, "; "))
	}

	if out.Data == nil || out.Data.Transactions == nil {
		return nil, ErrMissingData
	}

	return *out.Data.Transactions, nil
}
