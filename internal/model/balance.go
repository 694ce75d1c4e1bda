package model

import (
	"encoding/json"

	"github.com/holiman/uint256"
)

// Balance holds account amounts in base units
type Balance struct {
	Available *uint256.Int
	Escrow    *uint256.Int
	Debonding *uint256.Int
}

// ZeroBalance returns a balance with every amount set to zero
func ZeroBalance() Balance {
	return Balance{
		Available: new(uint256.Int),
		Escrow:    new(uint256.Int),
		Debonding: new(uint256.Int),
	}
}

// Clone returns a deep copy of b
func (b Balance) Clone() Balance {
	return Balance{
		Available: cloneInt(b.Available),
		Escrow:    cloneInt(b.Escrow),
		Debonding: cloneInt(b.Debonding),
	}
}

func cloneInt(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(v)
}

// Total returns available + escrow + debonding, saturating on overflow
func (b Balance) Total() *uint256.Int {
	total := new(uint256.Int)
	for _, v := range []*uint256.Int{b.Available, b.Escrow, b.Debonding} {
		if v == nil {
			continue
		}
		if _, overflow := total.AddOverflow(total, v); overflow {
			return new(uint256.Int).SetAllOne()
		}
	}
	return total
}

type balanceJSON struct {
	Available string `json:"available"`
	Escrow    string `json:"escrow"`
	Debonding string `json:"debonding"`
	Total     string `json:"total"`
}

// MarshalJSON encodes amounts as decimal base-unit strings
func (b Balance) MarshalJSON() ([]byte, error) {
	return json.Marshal(balanceJSON{
		Available: dec(b.Available),
		Escrow:    dec(b.Escrow),
		Debonding: dec(b.Debonding),
		Total:     b.Total().Dec(),
	})
}

// UnmarshalJSON decodes amounts from decimal base-unit strings
func (b *Balance) UnmarshalJSON(data []byte) error {
	var raw balanceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed := ZeroBalance()
	for _, f := range []struct {
		in  string
		out *uint256.Int
	}{
		{raw.Available, parsed.Available},
		{raw.Escrow, parsed.Escrow},
		{raw.Debonding, parsed.Debonding},
	} {
		if f.in == "" {
			continue
		}
		if err := f.out.SetFromDecimal(f.in); err != nil {
			return err
		}
	}
	*b = parsed
	return nil
}

func dec(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

// BalanceResponse represents response for GET /wallets/selected/balance
type BalanceResponse struct {
	Address   string `json:"address"`
	Available string `json:"available"`
	Escrow    string `json:"escrow"`
	Debonding string `json:"debonding"`
	Total     string `json:"total"`
	Currency  string `json:"currency,omitempty"`
	Rate      string `json:"rate,omitempty"`
	Fiat      string `json:"fiat,omitempty"`
}
