package types

import "github.com/ethereum/go-ethereum/common"

// Tag bits. A tag is a 256-bit capability set carried by orders and deals.
const (
	// TagBitTEE requires execution inside an attested enclave.
	TagBitTEE = 0
)

// TagHasBit reports whether bit is set in tag. Bit 0 is the least
// significant bit of the last byte.
func TagHasBit(tag common.Hash, bit uint) bool {
	if bit >= 256 {
		return false
	}
	return tag[31-bit/8]&(1<<(bit%8)) != 0
}

// TagRequiresEnclave reports whether tag requests attested execution.
func TagRequiresEnclave(tag common.Hash) bool {
	return TagHasBit(tag, TagBitTEE)
}

// TagUnion returns the bitwise OR of the given tags.
func TagUnion(tags ...common.Hash) common.Hash {
	var out common.Hash
	for _, t := range tags {
		for i := range out {
			out[i] |= t[i]
		}
	}
	return out
}

// TagCovers reports whether every bit of required is also set in offered.
func TagCovers(offered, required common.Hash) bool {
	for i := range required {
		if required[i]&^offered[i] != 0 {
			return false
		}
	}
	return true
}
