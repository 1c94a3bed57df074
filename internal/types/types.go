// internal/types/types.go
package types

// Direction identifies which side of the curve a trade hits.
type Direction uint8

const (
	// Buy spends the quote asset to receive the base asset.
	Buy Direction = iota
	// Sell returns the base asset to receive the quote asset.
	Sell
)

func (d Direction) String() string {
	switch d {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// Strategy selects the pricing model for a curve. A curve is created with
// one strategy and never switches.
type Strategy uint8

const (
	// ConstantProduct prices trades against virtual reserves holding
	// x*y = k invariant.
	ConstantProduct Strategy = iota
	// Polynomial prices trades as the integral of
	// basePrice * (1 + supply/maxSupply)^2 over the traded supply range.
	Polynomial
)

func (s Strategy) String() string {
	switch s {
	case ConstantProduct:
		return "constant_product"
	case Polynomial:
		return "polynomial"
	default:
		return "unknown"
	}
}
