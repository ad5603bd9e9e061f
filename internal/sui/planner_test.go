package sui

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/plan"
)

func decimals(d uint8) *uint8 {
	return &d
}

func transfer(to, amount string) plan.Transfer {
	return plan.Transfer{Destination: to, Amount: decimal.RequireFromString(amount)}
}

func TestPlanner_NativeCoin(t *testing.T) {
	req := plan.TransferRequest{
		SourceAddress: "0xA",
		CoinType:      "0x2::sui::SUI",
		Decimals:      decimals(9),
		Transfers:     []plan.Transfer{transfer("0xB", "1.5")},
	}
	// native transfers ignore the enumerated coins entirely
	coins := []plan.CoinObject{{ID: "0x1", Balance: 10}, {ID: "0x2", Balance: 20}}

	p, err := NewPlanner().Build(req, coins)
	require.NoError(t, err)

	assert.Nil(t, p.Merge)
	assert.True(t, p.Funding.Gas)
	assert.Equal(t, plan.Funding{Gas: true}, p.Split.Source)
	assert.Equal(t, []uint64{1500000000}, p.Split.Amounts)
	assert.Equal(t, []plan.TransferOp{{SplitIndex: 0, Destination: "0xB"}}, p.Transfers)
	assert.Empty(t, p.Inputs())
}

func TestPlanner_NativeCoinLongForm(t *testing.T) {
	req := plan.TransferRequest{
		SourceAddress: "0xA",
		CoinType:      "0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI",
		Transfers:     []plan.Transfer{transfer("0xB", "2")},
	}

	p, err := NewPlanner().Build(req, nil)
	require.NoError(t, err)
	assert.True(t, p.Funding.Gas)
	assert.Equal(t, []uint64{2000000000}, p.Split.Amounts, "nil decimals defaults to 9")
}

func TestPlanner_TokenMergesFragmentedCoins(t *testing.T) {
	req := plan.TransferRequest{
		SourceAddress: "0xA",
		CoinType:      "0xT",
		Decimals:      decimals(6),
		Transfers: []plan.Transfer{
			transfer("0xB", "2"),
			transfer("0xC", "3"),
		},
	}
	coins := []plan.CoinObject{
		{ID: "c1", Balance: 1000000},
		{ID: "c2", Balance: 9000000},
	}

	p, err := NewPlanner().Build(req, coins)
	require.NoError(t, err)

	require.NotNil(t, p.Merge)
	assert.Equal(t, "c1", p.Merge.Primary)
	assert.Equal(t, []string{"c2"}, p.Merge.Secondaries)
	assert.Equal(t, plan.Funding{CoinID: "c1"}, p.Split.Source)
	assert.Equal(t, []uint64{2000000, 3000000}, p.Split.Amounts)
	assert.Equal(t, []plan.TransferOp{
		{SplitIndex: 0, Destination: "0xB"},
		{SplitIndex: 1, Destination: "0xC"},
	}, p.Transfers)
	assert.Equal(t, []string{"c1", "c2"}, p.Inputs())
}

func TestPlanner_TokenNoCoins(t *testing.T) {
	req := plan.TransferRequest{
		SourceAddress: "0xA",
		CoinType:      "0xT",
		Decimals:      decimals(6),
		Transfers:     []plan.Transfer{transfer("0xB", "1")},
	}

	p, err := NewPlanner().Build(req, []plan.CoinObject{})
	assert.Nil(t, p)
	assert.ErrorIs(t, err, plan.ErrNoFundingObject)

	var buildErr *plan.BuildError
	assert.False(t, errors.As(err, &buildErr), "empty result is not a build failure")
}

func TestPlanner_SingleCoinNoMerge(t *testing.T) {
	req := plan.TransferRequest{
		SourceAddress: "0xA",
		CoinType:      "0xT::usdc::USDC",
		Decimals:      decimals(6),
		Transfers:     []plan.Transfer{transfer("0xB", "1"), transfer("0xC", "0.5")},
	}

	p, err := NewPlanner().Build(req, []plan.CoinObject{{ID: "0xc1", Balance: 5, CoinType: "0xT::usdc::USDC"}})
	require.NoError(t, err)
	assert.Nil(t, p.Merge)
	assert.Equal(t, plan.Funding{CoinID: "0xc1"}, p.Funding)
	assert.Equal(t, []uint64{1000000, 500000}, p.Split.Amounts, "sufficiency is left to the chain")
}

func TestPlanner_MergeKeepsInputOrder(t *testing.T) {
	for k := 2; k <= 6; k++ {
		t.Run(fmt.Sprintf("%d coins", k), func(t *testing.T) {
			coins := make([]plan.CoinObject, k)
			for i := range coins {
				coins[i] = plan.CoinObject{ID: fmt.Sprintf("0x%x", k*10+i), Balance: uint64(i + 1)}
			}
			snapshot := append([]plan.CoinObject(nil), coins...)

			req := plan.TransferRequest{
				SourceAddress: "0xA",
				CoinType:      "0xT",
				Decimals:      decimals(0),
				Transfers:     []plan.Transfer{transfer("0xB", "1")},
			}

			p, err := NewPlanner().Build(req, coins)
			require.NoError(t, err)
			require.NotNil(t, p.Merge)
			assert.Equal(t, coins[0].ID, p.Merge.Primary)
			require.Len(t, p.Merge.Secondaries, k-1)
			for i, id := range p.Merge.Secondaries {
				assert.Equal(t, coins[i+1].ID, id)
			}
			assert.Equal(t, snapshot, coins, "input coins must not be mutated")
		})
	}
}

func TestPlanner_PositionalCorrespondence(t *testing.T) {
	for n := 1; n <= 8; n++ {
		t.Run(fmt.Sprintf("%d transfers", n), func(t *testing.T) {
			transfers := make([]plan.Transfer, n)
			for i := range transfers {
				transfers[i] = transfer(fmt.Sprintf("0x%d", i+100), fmt.Sprintf("%d", i+1))
			}

			req := plan.TransferRequest{
				SourceAddress: "0xA",
				CoinType:      NativeCoinType,
				Transfers:     transfers,
			}

			p, err := NewPlanner().Build(req, nil)
			require.NoError(t, err)
			require.Len(t, p.Split.Amounts, n)
			require.Len(t, p.Transfers, n)
			for i, op := range p.Transfers {
				assert.Equal(t, i, op.SplitIndex)
				assert.Equal(t, transfers[i].Destination, op.Destination)
				assert.Equal(t, uint64(i+1)*1000000000, p.Split.Amounts[op.SplitIndex])
			}
		})
	}
}

func TestPlanner_BuildErrors(t *testing.T) {
	base := func() plan.TransferRequest {
		return plan.TransferRequest{
			SourceAddress: "0xA",
			CoinType:      "0xT::tok::TOK",
			Decimals:      decimals(6),
			Transfers:     []plan.Transfer{transfer("0xB", "1")},
		}
	}
	coins := []plan.CoinObject{{ID: "c1", Balance: 1}}

	tests := []struct {
		name   string
		mutate func(*plan.TransferRequest)
		coins  []plan.CoinObject
	}{
		{
			name:   "no transfers",
			mutate: func(r *plan.TransferRequest) { r.Transfers = nil },
			coins:  coins,
		},
		{
			name:   "empty destination",
			mutate: func(r *plan.TransferRequest) { r.Transfers[0].Destination = "" },
			coins:  coins,
		},
		{
			name:   "negative amount",
			mutate: func(r *plan.TransferRequest) { r.Transfers[0].Amount = decimal.RequireFromString("-1") },
			coins:  coins,
		},
		{
			name:   "overflow",
			mutate: func(r *plan.TransferRequest) { r.Transfers[0].Amount = decimal.RequireFromString("1e20") },
			coins:  coins,
		},
		{
			name:   "missing coin id",
			mutate: func(*plan.TransferRequest) {},
			coins:  []plan.CoinObject{{ID: "c1"}, {ID: ""}},
		},
		{
			name:   "duplicate coin id",
			mutate: func(*plan.TransferRequest) {},
			coins:  []plan.CoinObject{{ID: "c1"}, {ID: "c1"}},
		},
		{
			name:   "foreign coin type",
			mutate: func(*plan.TransferRequest) {},
			coins:  []plan.CoinObject{{ID: "c1", CoinType: NativeCoinType}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(&req)

			p, err := NewPlanner().Build(req, tt.coins)
			assert.Nil(t, p)
			require.Error(t, err)

			var buildErr *plan.BuildError
			require.True(t, errors.As(err, &buildErr))
			assert.Equal(t, ChainName, buildErr.Chain)
			assert.Contains(t, err.Error(), "sui build tx error")
			assert.NotErrorIs(t, err, plan.ErrNoFundingObject)
		})
	}
}

func TestPlanner_Operations(t *testing.T) {
	req := plan.TransferRequest{
		SourceAddress: "0xA",
		CoinType:      "0xT",
		Decimals:      decimals(6),
		Transfers:     []plan.Transfer{transfer("0xB", "2"), transfer("0xC", "3")},
	}
	coins := []plan.CoinObject{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}

	p, err := NewPlanner().Build(req, coins)
	require.NoError(t, err)

	ops := p.Operations()
	require.Len(t, ops, 4)
	assert.Equal(t, plan.OpMergeCoins, ops[0].Kind)
	assert.Equal(t, "c1", ops[0].Primary)
	assert.Equal(t, []string{"c2", "c3"}, ops[0].Secondaries)
	assert.Equal(t, plan.OpSplitCoins, ops[1].Kind)
	assert.Equal(t, []uint64{2000000, 3000000}, ops[1].Amounts)
	assert.Equal(t, plan.OpTransferObject, ops[2].Kind)
	assert.Equal(t, "0xB", ops[2].Destination)
	require.NotNil(t, ops[2].SplitIndex)
	assert.Equal(t, 0, *ops[2].SplitIndex)
	require.NotNil(t, ops[3].SplitIndex)
	assert.Equal(t, 1, *ops[3].SplitIndex)
	assert.Equal(t, "0xC", ops[3].Destination)

	total, err := p.Total()
	require.NoError(t, err)
	assert.Equal(t, uint64(5000000), total)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"secondaries":["c2","c3"]`)

	merge, err := json.Marshal(ops[0])
	require.NoError(t, err)
	assert.NotContains(t, string(merge), "splitIndex")

	first, err := json.Marshal(ops[2])
	require.NoError(t, err)
	assert.Contains(t, string(first), `"splitIndex":0`)
}

func TestPlanner_TotalOverflow(t *testing.T) {
	req := plan.TransferRequest{
		SourceAddress: "0xA",
		CoinType:      "0xT",
		Decimals:      decimals(0),
		Transfers: []plan.Transfer{
			transfer("0xB", "18446744073709551615"),
			transfer("0xC", "1"),
		},
	}

	_, err := NewPlanner().Build(req, []plan.CoinObject{{ID: "c1"}})
	var buildErr *plan.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Contains(t, err.Error(), "overflows")
}

func TestPlanner_ConcurrentBuilds(t *testing.T) {
	planner := NewPlanner()
	coins := []plan.CoinObject{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}

	var wg sync.WaitGroup
	errs := make([]error, 32)
	plans := make([]*plan.TransferPlan, 32)

	for i := range plans {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			plans[i], errs[i] = planner.Build(plan.TransferRequest{
				SourceAddress: "0xA",
				CoinType:      "0xT",
				Decimals:      decimals(6),
				Transfers: []plan.Transfer{
					transfer(fmt.Sprintf("0x%d", i), fmt.Sprintf("%d", i+1)),
				},
			}, coins)
		}(i)
	}
	wg.Wait()

	for i, p := range plans {
		require.NoError(t, errs[i])
		assert.Equal(t, []uint64{uint64(i+1) * 1_000_000}, p.Split.Amounts)
		assert.Equal(t, fmt.Sprintf("0x%d", i), p.Transfers[0].Destination)
		assert.Equal(t, []string{"c2", "c3"}, p.Merge.Secondaries)
	}
	assert.Equal(t, []plan.CoinObject{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}, coins)
}
