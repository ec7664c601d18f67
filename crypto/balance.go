package crypto

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// LocksrootLength is the length of the digest over a channel's pending locks.
const LocksrootLength = 32

// EmptyBalanceHash is the balance hash of a channel with no transferred
// funds and no pending locks, matching the contract's convention that an
// unused channel slot hashes to zero.
var EmptyBalanceHash = common.Hash{}

// LocksrootOfNoLocks is the locksroot of an empty set of pending locks.
var LocksrootOfNoLocks = make([]byte, LocksrootLength)

var ErrInvalidLocksroot = errors.New("locksroot must have length 32")

// HashBalanceData computes the 32-byte commitment over a channel's economic
// state: keccak256 of the two amounts as 256-bit big-endian words followed by
// the locksroot. The zero state hashes to EmptyBalanceHash.
//
// Both amounts must be non-negative and fit in 256 bits.
func HashBalanceData(transferredAmount, lockedAmount *big.Int, locksroot []byte) (common.Hash, error) {
	if len(locksroot) != LocksrootLength {
		return common.Hash{}, ErrInvalidLocksroot
	}

	transferred, err := toWord(transferredAmount)
	if err != nil {
		return common.Hash{}, fmt.Errorf("transferred amount: %w", err)
	}
	locked, err := toWord(lockedAmount)
	if err != nil {
		return common.Hash{}, fmt.Errorf("locked amount: %w", err)
	}

	if transferred.IsZero() && locked.IsZero() && allZero(locksroot) {
		return EmptyBalanceHash, nil
	}

	transferredWord := transferred.Bytes32()
	lockedWord := locked.Bytes32()
	return common.BytesToHash(crypto.Keccak256(transferredWord[:], lockedWord[:], locksroot)), nil
}

func toWord(amount *big.Int) (*uint256.Int, error) {
	if amount == nil {
		return nil, errors.New("amount is nil")
	}
	if amount.Sign() < 0 {
		return nil, errors.New("amount cannot be negative")
	}
	word, overflow := uint256.FromBig(amount)
	if overflow {
		return nil, errors.New("amount does not fit in 256 bits")
	}
	return word, nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
