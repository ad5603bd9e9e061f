package plan

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Coin describes the asset a wallet transfer moves.
type Coin struct {
	Name     string `json:"name"`
	Contract string `json:"contract"`
	Decimals *uint8 `json:"decimals,omitempty"`
}

// TransferItem is one user initiated wallet transfer to a single destination.
type TransferItem struct {
	Source      string          `json:"source"`
	Destination string          `json:"destination"`
	Amount      decimal.Decimal `json:"amount"`
	Coin        Coin            `json:"coin"`
}

// GroupTransfers folds per-destination items sharing a source and coin into
// one multi-destination request, preserving item order.
func GroupTransfers(items []TransferItem) (TransferRequest, error) {
	if len(items) == 0 {
		return TransferRequest{}, errors.New("no transfer items")
	}

	first := items[0]
	req := TransferRequest{
		SourceAddress: first.Source,
		CoinType:      first.Coin.Contract,
		Decimals:      first.Coin.Decimals,
		Transfers:     make([]Transfer, 0, len(items)),
	}

	for i, it := range items {
		if it.Source != first.Source {
			return TransferRequest{}, fmt.Errorf("item %d: source %s differs from %s", i, it.Source, first.Source)
		}
		if it.Coin.Contract != first.Coin.Contract {
			return TransferRequest{}, fmt.Errorf("item %d: coin %s differs from %s", i, it.Coin.Contract, first.Coin.Contract)
		}

		req.Transfers = append(req.Transfers, Transfer{
			Destination: it.Destination,
			Amount:      it.Amount,
		})
	}

	return req, nil
}
