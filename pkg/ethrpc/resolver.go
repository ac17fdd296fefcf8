// Package ethrpc resolves transaction hashes to their senders over Ethereum JSON-RPC.
package ethrpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/screwyprof/dexactivity/pkg/remote"
)

// Service is the name remote faults of this resolver are reported under
const Service = "ethrpc"

// Sentinel errors for failure cases
var (
	ErrDialFailed    = errors.New("dialing node failed")
	ErrInvalidHash   = errors.New("invalid transaction hash")
	ErrLookupFailed  = errors.New("transaction lookup failed")
	ErrTxNotFound    = errors.New("transaction not found")
	ErrMissingSender = errors.New("transaction has no sender")
	ErrHashMismatch  = errors.New("node returned a different transaction")
)

// DefaultCallTimeout bounds a single transaction lookup
const DefaultCallTimeout = 30 * time.Second

// Resolver looks up transactions on a ledger node
type Resolver struct {
	client      *rpc.Client
	callTimeout time.Duration
}

// Option configures the Resolver
type Option func(*options)

type options struct {
	httpClient  *http.Client
	callTimeout time.Duration
}

// WithHTTPClient sets the HTTP client used for http(s) endpoints
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithCallTimeout bounds every lookup
func WithCallTimeout(d time.Duration) Option {
	return func(o *options) { o.callTimeout = d }
}

// Dial connects to the node at url (http, ws or ipc)
func Dial(ctx context.Context, url string, opts ...Option) (*Resolver, error) {
	o := options{callTimeout: DefaultCallTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	var rpcOpts []rpc.ClientOption
	if o.httpClient != nil {
		rpcOpts = append(rpcOpts, rpc.WithHTTPClient(o.httpClient))
	}

	client, err := rpc.DialOptions(ctx, url, rpcOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDialFailed, err)
	}
	return &Resolver{client: client, callTimeout: o.callTimeout}, nil
}

// Close releases the underlying connection
func (r *Resolver) Close() {
	r.client.Close()
}

// rpcTransaction holds the fields of eth_getTransactionByHash we read
type rpcTransaction struct {
	Hash common.Hash     `json:"hash"`
	From *common.Address `json:"from"`
}

// Sender returns the checksummed address that sent the transaction with the given hash
func (r *Resolver) Sender(ctx context.Context, id string) (string, error) {
	sender, err := r.sender(ctx, id)
	return sender, remote.Wrap(Service, err)
}

// Senders resolves every id in order. The first failed lookup fails the whole batch.
func (r *Resolver) Senders(ctx context.Context, ids []string) ([]string, error) {
	senders := make([]string, 0, len(ids))
	for _, id := range ids {
		sender, err := r.Sender(ctx, id)
		if err != nil {
			return nil, err
		}
		senders = append(senders, sender)
	}
	return senders, nil
}

func (r *Resolver) sender(ctx context.Context, id string) (string, error) {
	raw, err := hexutil.Decode(id)
	if err != nil || len(raw) != common.HashLength {
		return "", fmt.Errorf("%w: %q", ErrInvalidHash, id)
	}
	hash := common.BytesToHash(raw)

	ctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	var tx *rpcTransaction
	if err := r.client.CallContext(ctx, &tx, "eth_getTransactionByHash", hash); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrLookupFailed, hash.Hex(), err)
	}
	if tx == nil {
		return "", fmt.Errorf("%w: %s", ErrTxNotFound, hash.Hex())
	}
	if tx.Hash != hash {
		return "", fmt.Errorf("%w: asked for %s, got %s", ErrHashMismatch, hash.Hex(), tx.Hash.Hex())
	}
	if tx.From == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingSender, hash.Hex())
	}

	return tx.From.Hex(), nil
}
