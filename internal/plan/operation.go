package plan

// OperationKind names a primitive ledger operation.
type OperationKind string

const (
	OpMergeCoins     OperationKind = "merge-coins"
	OpSplitCoins     OperationKind = "split-coins"
	OpTransferObject OperationKind = "transfer-object"
)

// Operation is one primitive step in the order an executor must apply it.
// Only the fields relevant to Kind are set.
type Operation struct {
	Kind OperationKind `json:"kind"`

	// merge-coins
	Primary     string   `json:"primary,omitempty"`
	Secondaries []string `json:"secondaries,omitempty"`

	// split-coins
	Source  *Funding `json:"source,omitempty"`
	Amounts []uint64 `json:"amounts,omitempty"`

	// transfer-object
	SplitIndex  *int   `json:"splitIndex,omitempty"`
	Destination string `json:"destination,omitempty"`
}

// Operations flattens the plan: optional merge, then split, then transfers.
func (p *TransferPlan) Operations() []Operation {
	ops := make([]Operation, 0, len(p.Transfers)+2)

	if p.Merge != nil {
		ops = append(ops, Operation{
			Kind:        OpMergeCoins,
			Primary:     p.Merge.Primary,
			Secondaries: append([]string(nil), p.Merge.Secondaries...),
		})
	}

	src := p.Split.Source
	ops = append(ops, Operation{
		Kind:    OpSplitCoins,
		Source:  &src,
		Amounts: append([]uint64(nil), p.Split.Amounts...),
	})

	for _, t := range p.Transfers {
		idx := t.SplitIndex
		ops = append(ops, Operation{
			Kind:        OpTransferObject,
			SplitIndex:  &idx,
			Destination: t.Destination,
		})
	}

	return ops
}
