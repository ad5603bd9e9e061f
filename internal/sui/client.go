package sui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/block-vision/sui-go-sdk/models"

	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/plan"
)

const coinsPageLimit = 50

// CoinReader is the subset of the Sui JSON-RPC read API used for coin lookups.
type CoinReader interface {
	SuiXGetCoins(ctx context.Context, req models.SuiXGetCoinsRequest) (models.PaginatedCoinsResponse, error)
	SuiXGetBalance(ctx context.Context, req models.SuiXGetBalanceRequest) (models.CoinBalanceResponse, error)
	SuiXGetCoinMetadata(ctx context.Context, req models.SuiXGetCoinMetadataRequest) (models.CoinMetadataResponse, error)
}

// Client answers coin queries against a Sui full node.
type Client struct {
	rpc CoinReader
}

func NewClient(rpc CoinReader) *Client {
	return &Client{
		rpc: rpc,
	}
}

// ListUnspentCoins fetches every coin object of coinType owned by owner,
// in the order the node enumerates them.
func (c *Client) ListUnspentCoins(ctx context.Context, owner, coinType string) ([]plan.CoinObject, error) {
	var coins []plan.CoinObject

	req := models.SuiXGetCoinsRequest{
		Owner:    owner,
		CoinType: coinType,
		Limit:    coinsPageLimit,
	}

	for {
		page, err := c.rpc.SuiXGetCoins(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("sui: failed to get coins: %w", err)
		}

		for _, d := range page.Data {
			balance, err := strconv.ParseUint(d.Balance, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("sui: failed to parse balance of coin %s: %w", d.CoinObjectId, err)
			}

			coins = append(coins, plan.CoinObject{
				ID:       d.CoinObjectId,
				Balance:  balance,
				CoinType: d.CoinType,
			})
		}

		if !page.HasNextPage || page.NextCursor == "" {
			break
		}
		req.Cursor = page.NextCursor
	}

	return coins, nil
}

// GetBalance returns the total balance of coinType held by owner, in base units.
func (c *Client) GetBalance(ctx context.Context, owner, coinType string) (uint64, error) {
	res, err := c.rpc.SuiXGetBalance(ctx, models.SuiXGetBalanceRequest{
		Owner:    owner,
		CoinType: coinType,
	})
	if err != nil {
		return 0, fmt.Errorf("sui: failed to get balance: %w", err)
	}

	if res.TotalBalance == "" {
		return 0, nil
	}

	balance, err := strconv.ParseUint(res.TotalBalance, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sui: failed to parse balance: %w", err)
	}
	return balance, nil
}

// GetDecimals reads the coin metadata decimals for coinType.
func (c *Client) GetDecimals(ctx context.Context, coinType string) (uint8, error) {
	if IsNativeCoinType(coinType) {
		return NativeDecimals, nil
	}

	meta, err := c.rpc.SuiXGetCoinMetadata(ctx, models.SuiXGetCoinMetadataRequest{
		CoinType: coinType,
	})
	if err != nil {
		return 0, fmt.Errorf("sui: failed to get coin metadata: %w", err)
	}
	return uint8(meta.Decimals), nil
}
