package sui

import (
	"context"
	"errors"
	"fmt"

	"github.com/block-vision/sui-go-sdk/models"
)

// fakeRPC is an in-memory stand-in for the Sui JSON-RPC API.
type fakeRPC struct {
	// owner -> coin type -> coins, in node enumeration order
	coins    map[string]map[string][]models.CoinData
	pageSize int
	decimals map[string]int
	coinsErr error

	pays      []models.PayRequest
	paySuis   []models.PaySuiRequest
	executed  []models.SignAndExecuteTransactionBlockRequest
	executeFn func(models.SignAndExecuteTransactionBlockRequest) error
}

func newFakeRPC() *fakeRPC {
	return &fakeRPC{
		coins:    map[string]map[string][]models.CoinData{},
		pageSize: 2,
		decimals: map[string]int{},
	}
}

func (f *fakeRPC) addCoin(owner, coinType, id, balance string) {
	if f.coins[owner] == nil {
		f.coins[owner] = map[string][]models.CoinData{}
	}
	f.coins[owner][coinType] = append(f.coins[owner][coinType], models.CoinData{
		CoinType:     coinType,
		CoinObjectId: id,
		Balance:      balance,
	})
}

func (f *fakeRPC) SuiXGetCoins(_ context.Context, req models.SuiXGetCoinsRequest) (models.PaginatedCoinsResponse, error) {
	if f.coinsErr != nil {
		return models.PaginatedCoinsResponse{}, f.coinsErr
	}

	all := f.coins[req.Owner][req.CoinType]

	// the first request carries no cursor and parses as page 0
	start := 0
	_, _ = fmt.Sscanf(fmt.Sprint(req.Cursor), "page-%d", &start)

	end := start + f.pageSize
	if end > len(all) {
		end = len(all)
	}

	res := models.PaginatedCoinsResponse{
		Data: all[start:end],
	}
	if end < len(all) {
		res.HasNextPage = true
		res.NextCursor = fmt.Sprintf("page-%d", end)
	}
	return res, nil
}

func (f *fakeRPC) SuiXGetBalance(_ context.Context, req models.SuiXGetBalanceRequest) (models.CoinBalanceResponse, error) {
	var total uint64
	for _, c := range f.coins[req.Owner][req.CoinType] {
		var b uint64
		_, err := fmt.Sscanf(c.Balance, "%d", &b)
		if err != nil {
			return models.CoinBalanceResponse{}, err
		}
		total += b
	}
	return models.CoinBalanceResponse{
		CoinType:     req.CoinType,
		TotalBalance: fmt.Sprintf("%d", total),
	}, nil
}

func (f *fakeRPC) SuiXGetCoinMetadata(_ context.Context, req models.SuiXGetCoinMetadataRequest) (models.CoinMetadataResponse, error) {
	d, ok := f.decimals[req.CoinType]
	if !ok {
		return models.CoinMetadataResponse{}, errors.New("metadata not found")
	}
	return models.CoinMetadataResponse{Decimals: d}, nil
}

func (f *fakeRPC) Pay(_ context.Context, req models.PayRequest) (models.TxnMetaData, error) {
	f.pays = append(f.pays, req)
	return models.TxnMetaData{TxBytes: "cGF5"}, nil
}

func (f *fakeRPC) PaySui(_ context.Context, req models.PaySuiRequest) (models.TxnMetaData, error) {
	f.paySuis = append(f.paySuis, req)
	return models.TxnMetaData{TxBytes: "cGF5U3Vp"}, nil
}

func (f *fakeRPC) SignAndExecuteTransactionBlock(_ context.Context, req models.SignAndExecuteTransactionBlockRequest) (models.SuiTransactionBlockResponse, error) {
	if f.executeFn != nil {
		if err := f.executeFn(req); err != nil {
			return models.SuiTransactionBlockResponse{}, err
		}
	}
	f.executed = append(f.executed, req)
	return models.SuiTransactionBlockResponse{Digest: "digest-1"}, nil
}
