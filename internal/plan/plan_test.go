package plan

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupTransfers(t *testing.T) {
	six := uint8(6)
	coin := Coin{Name: "USDC", Contract: "0xa1::usdc::USDC", Decimals: &six}

	items := []TransferItem{
		{Source: "0xs", Destination: "0xa", Amount: decimal.RequireFromString("1.5"), Coin: coin},
		{Source: "0xs", Destination: "0xb", Amount: decimal.RequireFromString("2"), Coin: coin},
	}

	req, err := GroupTransfers(items)
	require.NoError(t, err)
	assert.Equal(t, "0xs", req.SourceAddress)
	assert.Equal(t, coin.Contract, req.CoinType)
	assert.Equal(t, &six, req.Decimals)
	require.Len(t, req.Transfers, 2)
	assert.Equal(t, "0xa", req.Transfers[0].Destination)
	assert.True(t, decimal.RequireFromString("2").Equal(req.Transfers[1].Amount))
}

func TestGroupTransfers_Errors(t *testing.T) {
	_, err := GroupTransfers(nil)
	assert.Error(t, err)

	_, err = GroupTransfers([]TransferItem{
		{Source: "0xs", Coin: Coin{Contract: "0x2::sui::SUI"}},
		{Source: "0xother", Coin: Coin{Contract: "0x2::sui::SUI"}},
	})
	assert.ErrorContains(t, err, "item 1")

	_, err = GroupTransfers([]TransferItem{
		{Source: "0xs", Coin: Coin{Contract: "0x2::sui::SUI"}},
		{Source: "0xs", Coin: Coin{Contract: "0xa1::usdc::USDC"}},
	})
	assert.ErrorContains(t, err, "coin")
}

func TestTransferPlan_Inputs(t *testing.T) {
	gas := &TransferPlan{Funding: Funding{Gas: true}}
	assert.Nil(t, gas.Inputs())

	single := &TransferPlan{Funding: Funding{CoinID: "c1"}}
	assert.Equal(t, []string{"c1"}, single.Inputs())

	merged := &TransferPlan{
		Funding: Funding{CoinID: "c1"},
		Merge:   &MergeOp{Primary: "c1", Secondaries: []string{"c2", "c3"}},
	}
	assert.Equal(t, []string{"c1", "c2", "c3"}, merged.Inputs())
}

func TestTransferPlan_TotalOverflow(t *testing.T) {
	p := &TransferPlan{Split: SplitOp{Amounts: []uint64{math.MaxUint64, 1}}}
	_, err := p.Total()
	assert.Error(t, err)
}

func TestBuildError(t *testing.T) {
	cause := errors.New("no transfers")
	err := error(NewBuildError("sui", cause))

	assert.Equal(t, "sui build tx error: no transfers", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNoFundingObject)
}
