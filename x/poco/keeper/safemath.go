package keeper

import (
	"fmt"
	"math/big"

	"cosmossdk.io/math"
)

// maxUint256 bounds every ledger amount, matching the width of order prices.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

func checkBound(result *big.Int, op string) (math.Int, error) {
	if result.Cmp(maxUint256) > 0 {
		return math.Int{}, fmt.Errorf("overflow: %s result exceeds maximum value", op)
	}
	return math.NewIntFromBigInt(result), nil
}

// SafeAdd adds two math.Int values with overflow checking
func SafeAdd(a, b math.Int) (math.Int, error) {
	return checkBound(new(big.Int).Add(a.BigInt(), b.BigInt()), "addition")
}

// SafeSub subtracts two math.Int values with underflow checking
func SafeSub(a, b math.Int) (math.Int, error) {
	if a.LT(b) {
		return math.Int{}, fmt.Errorf("underflow: cannot subtract %s from %s", b.String(), a.String())
	}
	return a.Sub(b), nil
}

// SafeMul multiplies two math.Int values with overflow checking
func SafeMul(a, b math.Int) (math.Int, error) {
	if a.IsZero() || b.IsZero() {
		return math.ZeroInt(), nil
	}
	return checkBound(new(big.Int).Mul(a.BigInt(), b.BigInt()), "multiplication")
}

// SafeMulDiv performs floor((a * b) / c) with overflow protection
func SafeMulDiv(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, fmt.Errorf("division by zero")
	}
	intermediate, err := SafeMul(a, b)
	if err != nil {
		return math.Int{}, err
	}
	return math.NewIntFromBigInt(new(big.Int).Quo(intermediate.BigInt(), c.BigInt())), nil
}

// SafePercentage calculates floor(value * percentage / 100)
func SafePercentage(value math.Int, percentage uint64) (math.Int, error) {
	if percentage > 100 {
		return math.Int{}, fmt.Errorf("percentage must be <= 100")
	}
	return SafeMulDiv(value, math.NewIntFromUint64(percentage), math.NewInt(100))
}

// SafeAddUint64 adds two uint64 values with overflow checking
func SafeAddUint64(a, b uint64) (uint64, error) {
	if a > (1<<64 - 1 - b) {
		return 0, fmt.Errorf("overflow: uint64 addition overflow")
	}
	return a + b, nil
}

// SafeMulUint64 multiplies two uint64 values with overflow checking
func SafeMulUint64(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}

	result := a * b
	if result/a != b {
		return 0, fmt.Errorf("overflow: uint64 multiplication overflow")
	}
	return result, nil
}
