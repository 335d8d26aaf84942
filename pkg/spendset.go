package giga

// Composite key for the 'spent within this txn' set.
// Includes the claimed Owner: the same output referenced twice under
// two different claimed owners is NOT flagged as a double spend here;
// the bogus owner is caught by signature verification instead.
type spendKey struct {
	TxID  string // source transaction ID
	Owner string // claimed owner of the spend
	VOut  uint32 // source transaction VOut number
}

type SpendSet struct {
	used map[spendKey]bool
}

func NewSpendSet() SpendSet {
	return SpendSet{
		used: map[spendKey]bool{},
	}
}

func (u *SpendSet) Add(txID string, owner string, vOut uint32) {
	u.used[spendKey{TxID: txID, Owner: owner, VOut: vOut}] = true
}

func (u *SpendSet) Includes(txID string, owner string, vOut uint32) bool {
	return u.used[spendKey{TxID: txID, Owner: owner, VOut: vOut}]
}
