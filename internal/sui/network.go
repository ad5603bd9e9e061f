package sui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/block-vision/sui-go-sdk/signer"
	"github.com/sirupsen/logrus"

	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/plan"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/util"
)

// Config holds the Sui node settings, read from SUI_* env vars. An empty
// RPCURL routes node calls through the gateway's node passthrough.
type Config struct {
	RPCURL    string `envconfig:"SUI_RPC_URL"`
	GasBudget uint64 `envconfig:"SUI_GAS_BUDGET" default:"10000000"`
}

// Recorder receives plan and execution outcomes.
type Recorder interface {
	RecordPlan(chain, outcome string)
	RecordExecution(chain string, success bool, duration time.Duration)
}

const (
	OutcomeBuilt  = "built"
	OutcomeEmpty  = "empty"
	OutcomeFailed = "failed"
)

// Network handles Sui transfers: coin lookup, planning and execution.
type Network struct {
	planner  *Planner
	client   *Client
	executor *Executor
	recorder Recorder
	logger   logrus.FieldLogger
}

func NewNetwork(
	client *Client,
	executor *Executor,
	recorder Recorder,
	logger logrus.FieldLogger,
) *Network {
	return &Network{
		planner:  NewPlanner(),
		client:   client,
		executor: executor,
		recorder: recorder,
		logger:   logger.WithField("chain", ChainName),
	}
}

func (n *Network) Chain() string {
	return ChainName
}

func (n *Network) CheckAddress(address string) bool {
	return CheckAddress(address)
}

// Decimals returns the decimals of coinType, the native coin when empty.
func (n *Network) Decimals(ctx context.Context, coinType string) (uint8, error) {
	return n.client.GetDecimals(ctx, util.IfEmptyElse(coinType, NativeCoinType))
}

// Balance defaults to the native coin when coinType is empty.
func (n *Network) Balance(ctx context.Context, owner, coinType string) (uint64, error) {
	return n.client.GetBalance(ctx, owner, util.IfEmptyElse(coinType, NativeCoinType))
}

// BuildPlan enumerates the source's coins of the requested type and plans
// the transfer. Token decimals are read from coin metadata when omitted.
func (n *Network) BuildPlan(ctx context.Context, req plan.TransferRequest) (*plan.TransferPlan, error) {
	var coins []plan.CoinObject

	if !IsNativeCoinType(req.CoinType) {
		if req.Decimals == nil {
			d, err := n.client.GetDecimals(ctx, req.CoinType)
			if err != nil {
				return nil, fmt.Errorf("sui: failed to resolve decimals: %w", err)
			}
			req.Decimals = &d
		}

		var err error
		coins, err = n.client.ListUnspentCoins(ctx, req.SourceAddress, req.CoinType)
		if err != nil {
			return nil, fmt.Errorf("sui: failed to list coins: %w", err)
		}
	}

	p, err := n.planner.Build(req, coins)
	switch {
	case errors.Is(err, plan.ErrNoFundingObject):
		n.recorder.RecordPlan(ChainName, OutcomeEmpty)
		n.logger.WithFields(logrus.Fields{
			"source":    req.SourceAddress,
			"coin_type": req.CoinType,
		}).Warn("no coin objects to fund transfer")
		return nil, err
	case err != nil:
		n.recorder.RecordPlan(ChainName, OutcomeFailed)
		return nil, err
	}

	n.recorder.RecordPlan(ChainName, OutcomeBuilt)
	n.logger.WithFields(logrus.Fields{
		"source":    req.SourceAddress,
		"coin_type": req.CoinType,
		"merged":    p.Merge != nil,
		"transfers": len(p.Transfers),
	}).Debug("transfer plan built")

	return p, nil
}

// Send plans the request and executes it signed with the base64 secret key.
func (n *Network) Send(ctx context.Context, req plan.TransferRequest, secret string) (string, error) {
	kp, err := sourceKeypair(req, secret)
	if err != nil {
		return "", err
	}

	p, err := n.BuildPlan(ctx, req)
	if err != nil {
		return "", err
	}

	start := time.Now()
	digest, err := n.executor.Execute(ctx, p, kp)
	n.recorder.RecordExecution(ChainName, err == nil, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("sui: failed to execute plan: %w", err)
	}

	return digest, nil
}

// Sign plans the request and returns it signed but not submitted.
func (n *Network) Sign(ctx context.Context, req plan.TransferRequest, secret string) (*plan.SignedTx, error) {
	kp, err := sourceKeypair(req, secret)
	if err != nil {
		return nil, err
	}

	p, err := n.BuildPlan(ctx, req)
	if err != nil {
		return nil, err
	}

	signed, err := n.executor.Sign(ctx, p, kp)
	if err != nil {
		return nil, fmt.Errorf("sui: failed to sign plan: %w", err)
	}
	return signed, nil
}

func sourceKeypair(req plan.TransferRequest, secret string) (*signer.Signer, error) {
	kp, err := KeypairFromSecret(secret)
	if err != nil {
		return nil, err
	}

	addr, err := AddressFromPublicKey(kp.PubKey)
	if err != nil {
		return nil, fmt.Errorf("sui: %w: %v", plan.ErrInvalidKey, err)
	}
	if NormalizeAddress(addr) != NormalizeAddress(req.SourceAddress) {
		return nil, fmt.Errorf("sui: %w: key address %s, source %s", plan.ErrKeyMismatch, addr, req.SourceAddress)
	}
	return kp, nil
}
