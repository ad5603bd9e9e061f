package sui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/block-vision/sui-go-sdk/models"
	"github.com/block-vision/sui-go-sdk/signer"
	"github.com/sirupsen/logrus"

	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/plan"
)

const waitForLocalExecution = "WaitForLocalExecution"

// TxSubmitter is the subset of the Sui JSON-RPC write API used to assemble,
// sign and execute a plan.
type TxSubmitter interface {
	Pay(ctx context.Context, req models.PayRequest) (models.TxnMetaData, error)
	PaySui(ctx context.Context, req models.PaySuiRequest) (models.TxnMetaData, error)
	SignAndExecuteTransactionBlock(ctx context.Context, req models.SignAndExecuteTransactionBlockRequest) (models.SuiTransactionBlockResponse, error)
}

// CoinLister enumerates coin objects; *Client implements it.
type CoinLister interface {
	ListUnspentCoins(ctx context.Context, owner, coinType string) ([]plan.CoinObject, error)
}

// Executor turns a TransferPlan into a node assembled transaction, signs it
// and waits for local execution. unsafe_pay merges the input coins into the
// first one, splits it per recipient and transfers every output, which is
// the plan's merge/split/transfer sequence in a single transaction.
type Executor struct {
	rpc       TxSubmitter
	coins     CoinLister
	gasBudget uint64
	logger    logrus.FieldLogger
}

func NewExecutor(rpc TxSubmitter, coins CoinLister, gasBudget uint64, logger logrus.FieldLogger) *Executor {
	return &Executor{
		rpc:       rpc,
		coins:     coins,
		gasBudget: gasBudget,
		logger:    logger,
	}
}

// Assemble asks the node for the unsigned transaction bytes of p.
func (e *Executor) Assemble(ctx context.Context, p *plan.TransferPlan) (models.TxnMetaData, error) {
	if p.Chain != ChainName {
		return models.TxnMetaData{}, fmt.Errorf("sui: cannot execute %s plan", p.Chain)
	}
	if len(p.Split.Amounts) != len(p.Transfers) {
		return models.TxnMetaData{}, fmt.Errorf("sui: plan has %d split amounts for %d transfers", len(p.Split.Amounts), len(p.Transfers))
	}

	amounts := make([]string, len(p.Transfers))
	for i, t := range p.Transfers {
		amounts[i] = strconv.FormatUint(p.Split.Amounts[t.SplitIndex], 10)
	}
	recipients := p.Recipients()
	budget := strconv.FormatUint(e.gasBudget, 10)

	gasCoins, err := e.coins.ListUnspentCoins(ctx, p.Source, NativeCoinType)
	if err != nil {
		return models.TxnMetaData{}, fmt.Errorf("sui: failed to list gas coins: %w", err)
	}
	if len(gasCoins) == 0 {
		return models.TxnMetaData{}, errors.New("sui: no gas coin available")
	}

	if p.Funding.Gas {
		ids := make([]string, len(gasCoins))
		for i, c := range gasCoins {
			ids[i] = c.ID
		}

		tx, err := e.rpc.PaySui(ctx, models.PaySuiRequest{
			Signer:      p.Source,
			SuiObjectId: ids,
			Recipient:   recipients,
			Amount:      amounts,
			GasBudget:   budget,
		})
		if err != nil {
			return models.TxnMetaData{}, fmt.Errorf("sui: failed to assemble pay sui: %w", err)
		}
		return tx, nil
	}

	gasID := largestCoin(gasCoins).ID
	tx, err := e.rpc.Pay(ctx, models.PayRequest{
		Signer:      p.Source,
		SuiObjectId: p.Inputs(),
		Recipient:   recipients,
		Amount:      amounts,
		Gas:         &gasID,
		GasBudget:   budget,
	})
	if err != nil {
		return models.TxnMetaData{}, fmt.Errorf("sui: failed to assemble pay: %w", err)
	}
	return tx, nil
}

// Execute assembles, signs and submits p, returning the transaction digest.
func (e *Executor) Execute(ctx context.Context, p *plan.TransferPlan, kp *signer.Signer) (string, error) {
	tx, err := e.Assemble(ctx, p)
	if err != nil {
		return "", err
	}

	res, err := e.rpc.SignAndExecuteTransactionBlock(ctx, models.SignAndExecuteTransactionBlockRequest{
		TxnMetaData: tx,
		PriKey:      kp.PriKey,
		Options: models.SuiTransactionBlockOptions{
			ShowEffects: true,
		},
		RequestType: waitForLocalExecution,
	})
	if err != nil {
		return "", fmt.Errorf("sui: failed to sign and execute: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"digest":    res.Digest,
		"source":    p.Source,
		"coin_type": p.CoinType,
		"transfers": len(p.Transfers),
	}).Info("sui transaction executed")

	return res.Digest, nil
}

// Sign assembles p and signs it with the transaction intent without
// submitting it. The result can be broadcast later by any node or gateway.
func (e *Executor) Sign(ctx context.Context, p *plan.TransferPlan, kp *signer.Signer) (*plan.SignedTx, error) {
	tx, err := e.Assemble(ctx, p)
	if err != nil {
		return nil, err
	}

	signed := tx.SignSerializedSigWith(kp.PriKey)

	e.logger.WithFields(logrus.Fields{
		"source":    p.Source,
		"coin_type": p.CoinType,
		"transfers": len(p.Transfers),
	}).Debug("sui transaction signed")

	return &plan.SignedTx{
		Chain:     ChainName,
		TxBytes:   signed.TxBytes,
		Signature: signed.Signature,
	}, nil
}

func largestCoin(coins []plan.CoinObject) plan.CoinObject {
	best := coins[0]
	for _, c := range coins[1:] {
		if c.Balance > best.Balance {
			best = c
		}
	}
	return best
}
