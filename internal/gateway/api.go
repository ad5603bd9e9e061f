package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"
)

func esc(s string) string {
	return url.PathEscape(s)
}

func (c *Client) GetNetworks(ctx context.Context) (json.RawMessage, error) {
	return call[json.RawMessage](ctx, c, "GetNetworks", http.MethodGet, "/v1/info/networks", nil)
}

// GetTokens lists known tokens, for a single chain when chain is not empty.
func (c *Client) GetTokens(ctx context.Context, chain string) (json.RawMessage, error) {
	path := "/v1/info/tokens"
	if chain != "" {
		path += "/" + esc(chain)
	}
	return call[json.RawMessage](ctx, c, "GetTokens", http.MethodGet, path, nil)
}

func (c *Client) GetTokenInfo(ctx context.Context, code string) (json.RawMessage, error) {
	return call[json.RawMessage](ctx, c, "GetTokenInfo", http.MethodGet, "/v1/info/token/"+esc(code), nil)
}

// GetBalance returns the native balance, or the token balance when token is set.
func (c *Client) GetBalance(ctx context.Context, chain, address, token string) (json.RawMessage, error) {
	path := fmt.Sprintf("/v1/wallet/balance/%s/%s", esc(chain), esc(address))
	if token != "" {
		path += "/" + esc(token)
	}
	return call[json.RawMessage](ctx, c, "GetBalance", http.MethodGet, path, nil)
}

func (c *Client) GetTokensOnWallet(ctx context.Context, chain, address string) (json.RawMessage, error) {
	path := fmt.Sprintf("/v1/wallet/tokens/balance/%s/%s", esc(chain), esc(address))
	return call[json.RawMessage](ctx, c, "GetTokensOnWallet", http.MethodGet, path, nil)
}

func (c *Client) GetLastBlock(ctx context.Context, chain string) (json.RawMessage, error) {
	return call[json.RawMessage](ctx, c, "GetLastBlock", http.MethodGet, "/v1/block/current/"+esc(chain), nil)
}

func (c *Client) GetLastBlockHash(ctx context.Context, chain string) (json.RawMessage, error) {
	return call[json.RawMessage](ctx, c, "GetLastBlockHash", http.MethodGet, "/v1/block/lastBlockHash/"+esc(chain), nil)
}

func (c *Client) GetBlock(ctx context.Context, chain, hash string) (json.RawMessage, error) {
	path := fmt.Sprintf("/v1/block/%s/%s", esc(chain), esc(hash))
	return call[json.RawMessage](ctx, c, "GetBlock", http.MethodGet, path, nil)
}

func (c *Client) GetTransaction(ctx context.Context, chain, hash string) (json.RawMessage, error) {
	path := fmt.Sprintf("/v1/transaction/%s/%s", esc(chain), esc(hash))
	return call[json.RawMessage](ctx, c, "GetTransaction", http.MethodGet, path, nil)
}

func (c *Client) GetRawTransaction(ctx context.Context, chain, hash string) (json.RawMessage, error) {
	path := fmt.Sprintf("/v1/transaction/raw/%s/%s", esc(chain), esc(hash))
	return call[json.RawMessage](ctx, c, "GetRawTransaction", http.MethodGet, path, nil)
}

func (c *Client) GetTransactionCount(ctx context.Context, chain, address string) (json.RawMessage, error) {
	path := fmt.Sprintf("/v1/transaction/count/%s/%s", esc(chain), esc(address))
	return call[json.RawMessage](ctx, c, "GetTransactionCount", http.MethodGet, path, nil)
}

func (c *Client) GetFeeRate(ctx context.Context, chain string) (json.RawMessage, error) {
	return call[json.RawMessage](ctx, c, "GetFeeRate", http.MethodGet, "/v1/transaction/fee/rate/"+esc(chain), nil)
}

func (c *Client) GetUtxosForAddress(ctx context.Context, chain, address string) (json.RawMessage, error) {
	path := fmt.Sprintf("/v1/transaction/utxo/%s/%s", esc(chain), esc(address))
	return call[json.RawMessage](ctx, c, "GetUtxosForAddress", http.MethodGet, path, nil)
}

type estimateGasFeeRequest struct {
	Chain              string `json:"chain"`
	TransactionPayload any    `json:"transactionPayload"`
}

func (c *Client) EstimateGasFee(ctx context.Context, chain string, payload any) (json.RawMessage, error) {
	return call[json.RawMessage](ctx, c, "EstimateGasFee", http.MethodPost, "/v1/transaction/estimategasfee", estimateGasFeeRequest{
		Chain:              chain,
		TransactionPayload: payload,
	})
}

type estimateTxFeeRequest struct {
	Chain string `json:"chain"`
	Token string `json:"token"`
}

func (c *Client) EstimateTxFee(ctx context.Context, chain, token string) (json.RawMessage, error) {
	return call[json.RawMessage](ctx, c, "EstimateTxFee", http.MethodPost, "/v1/transaction/estimatetxfee", estimateTxFeeRequest{
		Chain: chain,
		Token: token,
	})
}

type sendTransactionRequest struct {
	Chain              string `json:"chain"`
	PrivateKey         string `json:"privateKey"`
	TransactionPayload any    `json:"transactionPayload"`
}

// SendTransaction lets the gateway sign and submit payload with key.
// It is never retried.
func (c *Client) SendTransaction(ctx context.Context, chain, key string, payload any) (json.RawMessage, error) {
	return callOnce[json.RawMessage](ctx, c, "SendTransaction", http.MethodPost, "/v1/transaction/sendTransaction", sendTransactionRequest{
		Chain:              chain,
		PrivateKey:         key,
		TransactionPayload: payload,
	})
}

type broadcastTransactionRequest struct {
	Chain             string `json:"chain"`
	SignedTransaction string `json:"signedTransaction"`
}

// BroadcastTransaction submits an already signed transaction. Resubmitting
// the same signed bytes yields the same digest, so it is safe to retry.
func (c *Client) BroadcastTransaction(ctx context.Context, chain, signedTx string) (json.RawMessage, error) {
	return call[json.RawMessage](ctx, c, "BroadcastTransaction", http.MethodPost, "/v1/transaction/broadcastTransaction", broadcastTransactionRequest{
		Chain:             chain,
		SignedTransaction: signedTx,
	})
}

// DirectRPCCall forwards body to the chain node behind the gateway.
// method defaults to POST; GET calls carry no body.
func (c *Client) DirectRPCCall(ctx context.Context, chain, method string, body any, rpcPath string) (json.RawMessage, error) {
	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodPost
	}

	path := c.nodePath(chain)
	if rpcPath != "" {
		path += "/" + strings.TrimLeft(rpcPath, "/")
	}

	if method == http.MethodGet {
		body = nil
	} else if body == nil {
		body = map[string]any{}
	}

	return call[json.RawMessage](ctx, c, "DirectRPCCall", method, path, body)
}

// WalletOverview is a wallet's balance, token balances and transaction count.
type WalletOverview struct {
	Balance          json.RawMessage `json:"balance"`
	Tokens           json.RawMessage `json:"tokens"`
	TransactionCount json.RawMessage `json:"transactionCount"`
}

// WalletOverview fetches the three wallet views concurrently.
func (c *Client) WalletOverview(ctx context.Context, chain, address string) (*WalletOverview, error) {
	var res WalletOverview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res.Balance, err = c.GetBalance(gctx, chain, address, "")
		return err
	})
	g.Go(func() error {
		var err error
		res.Tokens, err = c.GetTokensOnWallet(gctx, chain, address)
		return err
	})
	g.Go(func() error {
		var err error
		res.TransactionCount, err = c.GetTransactionCount(gctx, chain, address)
		return err
	})

	err := g.Wait()
	if err != nil {
		return nil, fmt.Errorf("gateway: failed to fetch wallet overview: %w", err)
	}
	return &res, nil
}
