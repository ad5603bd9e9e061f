package plan

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNoFundingObject is returned when the source owns no coin object of the
// requested (non-native) coin type, so no transaction can be built.
var ErrNoFundingObject = errors.New("no coin object found to fund transfer")

var (
	// ErrInvalidKey is returned for secrets that cannot be decoded into a keypair.
	ErrInvalidKey = errors.New("invalid secret key")
	// ErrKeyMismatch is returned when the signing key does not own the source.
	ErrKeyMismatch = errors.New("key does not own source address")
)

// Builder turns a transfer request into a chain specific plan.
// Each chain family (object-model, UTXO, account) provides its own variant.
type Builder interface {
	Chain() string
	Build(req TransferRequest, coins []CoinObject) (*TransferPlan, error)
}

// CoinObject is one unspent coin object owned by an address.
type CoinObject struct {
	ID       string `json:"id"`
	Balance  uint64 `json:"balance"`
	CoinType string `json:"coinType"`
}

// Transfer is a single destination/amount pair, amount in human units.
type Transfer struct {
	Destination string          `json:"destination"`
	Amount      decimal.Decimal `json:"amount"`
}

// TransferRequest is a normalized multi-destination payment.
// A nil Decimals falls back to the native gas coin's decimals.
type TransferRequest struct {
	SourceAddress string     `json:"sourceAddress"`
	CoinType      string     `json:"coinType"`
	Decimals      *uint8     `json:"decimals,omitempty"`
	Transfers     []Transfer `json:"transfers"`
}

// Funding identifies the object a split draws from.
type Funding struct {
	Gas    bool   `json:"gas"`
	CoinID string `json:"coinId,omitempty"`
}

func (f Funding) String() string {
	if f.Gas {
		return "gas"
	}
	return f.CoinID
}

type MergeOp struct {
	Primary     string   `json:"primary"`
	Secondaries []string `json:"secondaries"`
}

type SplitOp struct {
	Source  Funding  `json:"source"`
	Amounts []uint64 `json:"amounts"`
}

type TransferOp struct {
	SplitIndex  int    `json:"splitIndex"`
	Destination string `json:"destination"`
}

// TransferPlan is an ordered, serializable description of the ledger
// operations that fund every transfer of a request in one transaction.
type TransferPlan struct {
	Chain     string       `json:"chain"`
	Source    string       `json:"source"`
	CoinType  string       `json:"coinType"`
	Funding   Funding      `json:"funding"`
	Merge     *MergeOp     `json:"merge,omitempty"`
	Split     SplitOp      `json:"split"`
	Transfers []TransferOp `json:"transfers"`
}

// Total returns the sum of all split amounts.
func (p *TransferPlan) Total() (uint64, error) {
	var total uint64
	for _, a := range p.Split.Amounts {
		if total+a < total {
			return 0, fmt.Errorf("plan total overflows uint64")
		}
		total += a
	}
	return total, nil
}

// Inputs returns the coin object ids consumed by the plan, primary first.
// Gas funded plans consume no explicit coin objects.
func (p *TransferPlan) Inputs() []string {
	if p.Funding.Gas {
		return nil
	}
	ids := []string{p.Funding.CoinID}
	if p.Merge != nil {
		ids = append(ids, p.Merge.Secondaries...)
	}
	return ids
}

// Recipients returns destinations in split output order.
func (p *TransferPlan) Recipients() []string {
	res := make([]string, len(p.Transfers))
	for i, t := range p.Transfers {
		res[i] = t.Destination
	}
	return res
}

// BuildError wraps any failure while composing a plan with the chain name.
type BuildError struct {
	Chain string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s build tx error: %v", e.Chain, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

func NewBuildError(chain string, err error) *BuildError {
	return &BuildError{Chain: chain, Err: err}
}

// SignedTx is a signed, not yet submitted transaction.
type SignedTx struct {
	Chain     string `json:"chain"`
	TxBytes   string `json:"transactionBlockBytes"`
	Signature string `json:"signature"`
}

// Payload is the serialized form gateways accept for broadcast.
func (s *SignedTx) Payload() (string, error) {
	raw, err := json.Marshal(struct {
		TxBytes   string `json:"transactionBlockBytes"`
		Signature string `json:"signature"`
	}{
		TxBytes:   s.TxBytes,
		Signature: s.Signature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal signed tx: %w", err)
	}
	return string(raw), nil
}
