package domain

import "time"

// Debt is the single signed balance kept per unordered pair of users.
// The pair is stored canonically with the lexicographically smaller uid
// first, and Balance means "U1 owes U2"; negative means U2 owes U1.
type Debt struct {
	U1        string
	U2        string
	Balance   Money
	UpdatedAt time.Time
}

// OwedBy returns how much uid owes the other party (negative when the other
// party owes uid).
func (d Debt) OwedBy(uid string) Money {
	if uid == d.U1 {
		return d.Balance
	}
	return d.Balance.Neg()
}

// Other returns the counterparty of uid in the pair.
func (d Debt) Other(uid string) string {
	if uid == d.U1 {
		return d.U2
	}
	return d.U1
}

// CanonicalPair orders two uids so the lexicographically smaller one comes
// first. Every debt record is keyed by this ordering.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// PaymentDelta is the signed change to the canonical balance when from pays
// to the given amount. A payment from u1 reduces what u1 owes u2.
func PaymentDelta(from, to string, amount Money) Money {
	u1, _ := CanonicalPair(from, to)
	if from == u1 {
		return amount.Neg()
	}
	return amount
}

// ChargeDelta is the signed change to the canonical balance when debtor is
// charged amount in favor of debtee. A charge against u1 increases what u1
// owes u2.
func ChargeDelta(debtor, debtee string, amount Money) Money {
	u1, _ := CanonicalPair(debtor, debtee)
	if debtor == u1 {
		return amount
	}
	return amount.Neg()
}

// splitDelta is the signed canonical-balance contribution of one split
// transaction, seen from the ledger it lives in. When self paid, the
// counterparty owes their share; when the counterparty paid, self owes its
// own amount. Settled splits contribute nothing.
func splitDelta(self string, t *Transaction) Money {
	if t == nil || t.Split == nil || t.Split.Settled {
		return MoneyZero
	}

	if t.Split.Payer == self {
		return ChargeDelta(t.Split.With, self, t.Split.OtherAmount)
	}
	return ChargeDelta(self, t.Split.With, t.Amount)
}

// BalanceDelta computes how the pairwise balance changes when a split
// transaction is added (old nil), updated, or removed (new nil). The old
// split's effect is inverted before the new one is applied.
func BalanceDelta(self string, old, new *Transaction) Money {
	return splitDelta(self, new).Minus(splitDelta(self, old))
}
