package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	suisdk "github.com/block-vision/sui-go-sdk/sui"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/gateway"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/logging"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/metrics"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/plan"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/sui"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/util"
)

var (
	flatPreset = flag.String("preset", "", "preset to execute")
	chain      = flag.String("chain", sui.ChainName, "chain name")
	address    = flag.String("address", "", "wallet address")
	token      = flag.String("token", "", "token contract, empty for the native coin")
	code       = flag.String("code", "", "token code for the tokens preset")
	hash       = flag.String("hash", "", "block or transaction hash")
	raw        = flag.Bool("raw", false, "fetch the raw transaction")
	mnemonic   = flag.String("mnemonic", "", "mnemonic for the wallet preset")
	secret     = flag.String("secret", "", "base64 secret key")
	method     = flag.String("method", "", "http method for the rpc preset")
	body       = flag.String("body", "", "json body for the rpc preset")
	rpcPath    = flag.String("path", "", "node path for the rpc preset")
	signed     = flag.String("signed", "", "signed transaction for the broadcast preset")
	payload    = flag.String("payload", "", "json transaction payload")
	to         = flag.String("to", "", "comma separated destinations")
	amounts    = flag.String("amounts", "", "comma separated amounts in human units")
)

type config struct {
	LogFormat logging.LogFormat `envconfig:"LOG_FORMAT" default:"text"`
	Gateway   gateway.Config
	Sui       sui.Config
}

type preset func(context.Context, *gateway.Client, config, logrus.FieldLogger) error

var presets = map[string]preset{
	"networks":  networks,
	"tokens":    tokens,
	"balance":   balance,
	"overview":  overview,
	"block":     block,
	"tx":        transaction,
	"utxo":      utxo,
	"fee":       fee,
	"rpc":       rpc,
	"plan":      buildPlan,
	"send":      send,
	"broadcast": broadcast,
	"wallet":    wallet,
}

// offline presets run without a gateway.
var offline = map[string]bool{
	"wallet": true,
}

func main() {
	flag.Parse()

	if *flatPreset == "" {
		panic("preset is required")
	}
	run, ok := presets[*flatPreset]
	if !ok {
		panic(fmt.Sprintf("unknown preset %q", *flatPreset))
	}

	var cfg config
	err := envconfig.Process("", &cfg)
	if err != nil {
		logrus.Fatalf("failed to process env var: %v", err)
	}
	logger := logging.NewLogger(cfg.LogFormat)

	var client *gateway.Client
	if !offline[*flatPreset] && cfg.Gateway.URL != "" {
		client, err = gateway.NewClient(cfg.Gateway, nil, logger)
		if err != nil {
			logger.Fatalf("failed to initialize gateway client: %v", err)
		}
	}

	err = run(context.Background(), client, cfg, logger)
	if err != nil {
		logger.Fatalf("preset %s failed: %v", *flatPreset, err)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func requireAddress() error {
	if *address == "" {
		return fmt.Errorf("-address is required")
	}
	return nil
}

func requireGateway(c *gateway.Client) error {
	if c == nil {
		return fmt.Errorf("GATEWAY_URL is required for preset %s", *flatPreset)
	}
	return nil
}

func splitList(s string) []string {
	var res []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			res = append(res, v)
		}
	}
	return res
}

// jsonFlag decodes a flag holding JSON, nil when empty.
func jsonFlag(name, v string) (any, error) {
	if v == "" {
		return nil, nil
	}
	var res any
	err := json.Unmarshal([]byte(v), &res)
	if err != nil {
		return nil, fmt.Errorf("-%s is not valid json: %w", name, err)
	}
	return res, nil
}

func networks(ctx context.Context, c *gateway.Client, _ config, _ logrus.FieldLogger) error {
	err := requireGateway(c)
	if err != nil {
		return err
	}

	res, err := c.GetNetworks(ctx)
	if err != nil {
		return err
	}
	return printJSON(res)
}

// tokens lists the chain's tokens, or a single token's info with -code.
func tokens(ctx context.Context, c *gateway.Client, _ config, _ logrus.FieldLogger) error {
	err := requireGateway(c)
	if err != nil {
		return err
	}

	var res json.RawMessage
	if *code != "" {
		res, err = c.GetTokenInfo(ctx, *code)
	} else {
		res, err = c.GetTokens(ctx, *chain)
	}
	if err != nil {
		return err
	}
	return printJSON(res)
}

func balance(ctx context.Context, c *gateway.Client, _ config, _ logrus.FieldLogger) error {
	err := requireGateway(c)
	if err != nil {
		return err
	}
	err = requireAddress()
	if err != nil {
		return err
	}

	res, err := c.GetBalance(ctx, *chain, *address, *token)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func overview(ctx context.Context, c *gateway.Client, _ config, _ logrus.FieldLogger) error {
	err := requireGateway(c)
	if err != nil {
		return err
	}
	err = requireAddress()
	if err != nil {
		return err
	}

	res, err := c.WalletOverview(ctx, *chain, *address)
	if err != nil {
		return err
	}
	return printJSON(res)
}

// block prints the block named by -hash, or the chain head.
func block(ctx context.Context, c *gateway.Client, _ config, _ logrus.FieldLogger) error {
	err := requireGateway(c)
	if err != nil {
		return err
	}

	if *hash != "" {
		res, err := c.GetBlock(ctx, *chain, *hash)
		if err != nil {
			return err
		}
		return printJSON(res)
	}

	last, err := c.GetLastBlock(ctx, *chain)
	if err != nil {
		return err
	}
	lastHash, err := c.GetLastBlockHash(ctx, *chain)
	if err != nil {
		return err
	}
	return printJSON(map[string]json.RawMessage{
		"block": last,
		"hash":  lastHash,
	})
}

func transaction(ctx context.Context, c *gateway.Client, _ config, _ logrus.FieldLogger) error {
	err := requireGateway(c)
	if err != nil {
		return err
	}
	if *hash == "" {
		return fmt.Errorf("-hash is required")
	}

	var res json.RawMessage
	if *raw {
		res, err = c.GetRawTransaction(ctx, *chain, *hash)
	} else {
		res, err = c.GetTransaction(ctx, *chain, *hash)
	}
	if err != nil {
		return err
	}
	return printJSON(res)
}

func utxo(ctx context.Context, c *gateway.Client, _ config, _ logrus.FieldLogger) error {
	err := requireGateway(c)
	if err != nil {
		return err
	}
	err = requireAddress()
	if err != nil {
		return err
	}

	res, err := c.GetUtxosForAddress(ctx, *chain, *address)
	if err != nil {
		return err
	}
	return printJSON(res)
}

// fee prints the fee rate and a transfer fee estimate. With -payload the
// estimate is for that exact transaction payload.
func fee(ctx context.Context, c *gateway.Client, _ config, _ logrus.FieldLogger) error {
	err := requireGateway(c)
	if err != nil {
		return err
	}

	rate, err := c.GetFeeRate(ctx, *chain)
	if err != nil {
		return err
	}

	p, err := jsonFlag("payload", *payload)
	if err != nil {
		return err
	}

	var estimate json.RawMessage
	if p != nil {
		estimate, err = c.EstimateGasFee(ctx, *chain, p)
	} else {
		estimate, err = c.EstimateTxFee(ctx, *chain, *token)
	}
	if err != nil {
		return err
	}

	return printJSON(map[string]json.RawMessage{
		"feeRate":  rate,
		"estimate": estimate,
	})
}

func rpc(ctx context.Context, c *gateway.Client, _ config, _ logrus.FieldLogger) error {
	err := requireGateway(c)
	if err != nil {
		return err
	}

	b, err := jsonFlag("body", *body)
	if err != nil {
		return err
	}

	res, err := c.DirectRPCCall(ctx, *chain, *method, b, *rpcPath)
	if err != nil {
		return err
	}
	return printJSON(res)
}

// buildPlan prints the transfer plan for -address paying -amounts to -to,
// reading coins from SUI_RPC_URL or the gateway's node passthrough.
func buildPlan(ctx context.Context, c *gateway.Client, cfg config, logger logrus.FieldLogger) error {
	err := requireAddress()
	if err != nil {
		return err
	}

	dests := splitList(*to)
	values := splitList(*amounts)
	if len(dests) == 0 || len(dests) != len(values) {
		return fmt.Errorf("-to and -amounts must list the same number of entries")
	}

	req := plan.TransferRequest{
		SourceAddress: *address,
		CoinType:      util.IfEmptyElse(*token, sui.NativeCoinType),
	}
	for i, d := range dests {
		amount, err := util.ParseAmount(values[i])
		if err != nil {
			return err
		}
		req.Transfers = append(req.Transfers, plan.Transfer{
			Destination: d,
			Amount:      amount,
		})
	}

	rpcURL := cfg.Sui.RPCURL
	if rpcURL == "" {
		err = requireGateway(c)
		if err != nil {
			return err
		}
		rpcURL = c.NodeURL(sui.ChainName)
	}

	node := suisdk.NewSuiClient(rpcURL)
	client := sui.NewClient(node)
	network := sui.NewNetwork(
		client,
		sui.NewExecutor(node, client, cfg.Sui.GasBudget, logger),
		metrics.NewTransferMetrics(),
		logger,
	)

	p, err := network.BuildPlan(ctx, req)
	if err != nil {
		return err
	}
	total, err := p.Total()
	if err != nil {
		return err
	}
	decimals, err := network.Decimals(ctx, req.CoinType)
	if err != nil {
		return err
	}

	return printJSON(struct {
		*plan.TransferPlan
		Operations []plan.Operation `json:"operations"`
		Total      string           `json:"total"`
	}{
		TransferPlan: p,
		Operations:   p.Operations(),
		Total:        util.FromBaseUnits(total, decimals),
	})
}

// send lets the gateway sign and submit -payload with -secret.
func send(ctx context.Context, c *gateway.Client, _ config, _ logrus.FieldLogger) error {
	err := requireGateway(c)
	if err != nil {
		return err
	}
	if *secret == "" {
		return fmt.Errorf("-secret is required")
	}

	p, err := jsonFlag("payload", *payload)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("-payload is required")
	}

	res, err := c.SendTransaction(ctx, *chain, *secret, p)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func broadcast(ctx context.Context, c *gateway.Client, _ config, _ logrus.FieldLogger) error {
	err := requireGateway(c)
	if err != nil {
		return err
	}
	if *signed == "" {
		return fmt.Errorf("-signed is required")
	}

	res, err := c.BroadcastTransaction(ctx, *chain, *signed)
	if err != nil {
		return err
	}
	return printJSON(res)
}

// wallet derives a Sui address offline, from -mnemonic or -secret.
func wallet(_ context.Context, _ *gateway.Client, _ config, _ logrus.FieldLogger) error {
	switch {
	case *mnemonic != "":
		w, err := sui.RegisterWallet(*mnemonic)
		if err != nil {
			return err
		}
		return printJSON(w)
	case *secret != "":
		addr, err := sui.AddressFromKey(*secret)
		if err != nil {
			return err
		}
		return printJSON(map[string]string{"address": addr})
	default:
		return fmt.Errorf("-mnemonic or -secret is required")
	}
}
