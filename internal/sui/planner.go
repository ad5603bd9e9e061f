package sui

import (
	"errors"
	"fmt"

	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/plan"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/util"
)

const (
	ChainName = "sui"

	// NativeCoinType is the gas coin type.
	NativeCoinType = "0x2::sui::SUI"

	NativeDecimals uint8 = 9
)

// Planner is the object-model plan.Builder: it merges fragmented coin
// objects into one, splits it per destination and transfers each output.
type Planner struct{}

func NewPlanner() *Planner {
	return &Planner{}
}

func (p *Planner) Chain() string {
	return ChainName
}

// Build never returns a partial plan. plan.ErrNoFundingObject is returned as is
// when no coin of a non-native type exists; every other failure is a
// *plan.BuildError.
func (p *Planner) Build(req plan.TransferRequest, coins []plan.CoinObject) (*plan.TransferPlan, error) {
	amounts, err := baseAmounts(req)
	if err != nil {
		return nil, plan.NewBuildError(ChainName, err)
	}

	result := &plan.TransferPlan{
		Chain:    ChainName,
		Source:   req.SourceAddress,
		CoinType: req.CoinType,
	}

	if IsNativeCoinType(req.CoinType) {
		result.Funding = plan.Funding{Gas: true}
	} else {
		if len(coins) == 0 {
			return nil, plan.ErrNoFundingObject
		}

		err = validateCoins(req.CoinType, coins)
		if err != nil {
			return nil, plan.NewBuildError(ChainName, err)
		}

		primary := coins[0]
		result.Funding = plan.Funding{CoinID: primary.ID}

		if len(coins) > 1 {
			rest := make([]string, 0, len(coins)-1)
			for _, c := range coins[1:] {
				rest = append(rest, c.ID)
			}
			result.Merge = &plan.MergeOp{
				Primary:     primary.ID,
				Secondaries: rest,
			}
		}
	}

	result.Split = plan.SplitOp{
		Source:  result.Funding,
		Amounts: amounts,
	}

	_, err = result.Total()
	if err != nil {
		return nil, plan.NewBuildError(ChainName, err)
	}

	result.Transfers = make([]plan.TransferOp, len(req.Transfers))
	for i, t := range req.Transfers {
		result.Transfers[i] = plan.TransferOp{
			SplitIndex:  i,
			Destination: t.Destination,
		}
	}

	return result, nil
}

func baseAmounts(req plan.TransferRequest) ([]uint64, error) {
	if len(req.Transfers) == 0 {
		return nil, errors.New("no transfers requested")
	}

	decimals := NativeDecimals
	if req.Decimals != nil {
		decimals = *req.Decimals
	}

	amounts := make([]uint64, len(req.Transfers))
	for i, t := range req.Transfers {
		if t.Destination == "" {
			return nil, fmt.Errorf("transfer %d: empty destination", i)
		}

		amount, err := util.ToBaseUnits(t.Amount, decimals)
		if err != nil {
			return nil, fmt.Errorf("transfer %d: %w", i, err)
		}
		amounts[i] = amount
	}
	return amounts, nil
}

func validateCoins(coinType string, coins []plan.CoinObject) error {
	seen := make(map[string]struct{}, len(coins))
	for i, c := range coins {
		if c.ID == "" {
			return fmt.Errorf("coin %d: missing object id", i)
		}
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("coin %d: duplicate object id %s", i, c.ID)
		}
		seen[c.ID] = struct{}{}

		if c.CoinType != "" && !SameCoinType(c.CoinType, coinType) {
			return fmt.Errorf("coin %s: type %s does not match %s", c.ID, c.CoinType, coinType)
		}
	}
	return nil
}
