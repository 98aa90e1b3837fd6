package validators

import "errors"

var ErrUnknownPack = errors.New("invalid points pack selected")

// PointPacks maps purchasable point quantities to their price in USD cents
var PointPacks = map[int]int64{
	10:  299,
	50:  999,
	200: 2999,
}

// PointPackValidator returns the price of a recognized pack
func PointPackValidator(points int) (int64, error) {
	amount, ok := PointPacks[points]
	if !ok {
		return 0, ErrUnknownPack
	}

	return amount, nil
}
