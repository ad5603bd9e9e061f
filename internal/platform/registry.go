package platform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/plan"
)

var ErrUnsupportedChain = errors.New("unsupported chain")

// Platform is a chain binding selected by name at runtime.
type Platform interface {
	Chain() string
	CheckAddress(address string) bool
	Balance(ctx context.Context, owner, coinType string) (uint64, error)
	Decimals(ctx context.Context, coinType string) (uint8, error)
	BuildPlan(ctx context.Context, req plan.TransferRequest) (*plan.TransferPlan, error)
	Sign(ctx context.Context, req plan.TransferRequest, secret string) (*plan.SignedTx, error)
	Send(ctx context.Context, req plan.TransferRequest, secret string) (string, error)
}

// Registry maps chain names to platforms. It is immutable once built.
type Registry struct {
	platforms map[string]Platform
}

func NewRegistry(platforms ...Platform) (*Registry, error) {
	r := &Registry{
		platforms: make(map[string]Platform, len(platforms)),
	}

	for _, p := range platforms {
		key := strings.ToLower(p.Chain())
		if _, ok := r.platforms[key]; ok {
			return nil, fmt.Errorf("platform %s registered twice", key)
		}
		r.platforms[key] = p
	}

	return r, nil
}

func (r *Registry) Get(chain string) (Platform, error) {
	p, ok := r.platforms[strings.ToLower(chain)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChain, chain)
	}
	return p, nil
}

func (r *Registry) Chains() []string {
	res := make([]string, 0, len(r.platforms))
	for k := range r.platforms {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}
