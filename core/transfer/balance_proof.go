package transfer

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"paych/crypto"
)

var (
	ErrZeroNonce          = errors.New("nonce cannot be zero")
	ErrNegativeAmount     = errors.New("amount cannot be negative")
	ErrAmountTooLarge     = errors.New("amount does not fit in 256 bits")
	ErrInvalidLocksroot   = errors.New("locksroot must have length 32")
	ErrInvalidMessageHash = errors.New("message hash must have length 32")
	ErrInvalidSignature   = errors.New("signature must have length 65")
)

// maxTokenAmount is 2^256 - 1, the largest value the token network contract
// can represent.
var maxTokenAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// BalanceProofUnsignedState is a balance proof from the local node, before it
// has been signed. The constructor is the only validation gate: the balance
// hash is always recomputed from the amounts and the locksroot, never taken
// from the caller, so a forged hash cannot enter the state tree.
type BalanceProofUnsignedState struct {
	Nonce               Nonce               `json:"nonce"`
	TransferredAmount   *big.Int            `json:"transferredAmount"`
	LockedAmount        *big.Int            `json:"lockedAmount"`
	Locksroot           []byte              `json:"locksroot"`
	CanonicalIdentifier CanonicalIdentifier `json:"canonicalIdentifier"`
	BalanceHash         common.Hash         `json:"balanceHash"`
}

func NewBalanceProofUnsignedState(
	nonce Nonce,
	transferredAmount *big.Int,
	lockedAmount *big.Int,
	locksroot []byte,
	canonical CanonicalIdentifier,
) (*BalanceProofUnsignedState, error) {
	if err := validateBalanceFields(nonce, transferredAmount, lockedAmount, locksroot, canonical); err != nil {
		return nil, err
	}
	balanceHash, err := crypto.HashBalanceData(transferredAmount, lockedAmount, locksroot)
	if err != nil {
		return nil, err
	}
	return &BalanceProofUnsignedState{
		Nonce:               nonce,
		TransferredAmount:   new(big.Int).Set(transferredAmount),
		LockedAmount:        new(big.Int).Set(lockedAmount),
		Locksroot:           append([]byte(nil), locksroot...),
		CanonicalIdentifier: canonical,
		BalanceHash:         balanceHash,
	}, nil
}

func (bp *BalanceProofUnsignedState) Copy() State {
	cp := *bp
	cp.TransferredAmount = new(big.Int).Set(bp.TransferredAmount)
	cp.LockedAmount = new(big.Int).Set(bp.LockedAmount)
	cp.Locksroot = append([]byte(nil), bp.Locksroot...)
	return &cp
}

func (bp *BalanceProofUnsignedState) ChainID() ChainID {
	return bp.CanonicalIdentifier.ChainID
}

func (bp *BalanceProofUnsignedState) TokenNetworkAddress() common.Address {
	return bp.CanonicalIdentifier.TokenNetworkAddress
}

func (bp *BalanceProofUnsignedState) ChannelID() ChannelID {
	return bp.CanonicalIdentifier.ChannelID
}

// BalanceProofSignedState is a channel partner's balance proof, usable
// on-chain to resolve disputes. On top of the unsigned fields it carries the
// hash of the enclosing message, the partner's signature over it, and the
// recovered sender address. Authenticity of the signature against the sender
// is established at the message boundary; this object only enforces shape.
type BalanceProofSignedState struct {
	Nonce               Nonce               `json:"nonce"`
	TransferredAmount   *big.Int            `json:"transferredAmount"`
	LockedAmount        *big.Int            `json:"lockedAmount"`
	Locksroot           []byte              `json:"locksroot"`
	MessageHash         []byte              `json:"messageHash"`
	Signature           []byte              `json:"signature"`
	Sender              common.Address      `json:"sender"`
	CanonicalIdentifier CanonicalIdentifier `json:"canonicalIdentifier"`
	BalanceHash         common.Hash         `json:"balanceHash"`
}

func NewBalanceProofSignedState(
	nonce Nonce,
	transferredAmount *big.Int,
	lockedAmount *big.Int,
	locksroot []byte,
	messageHash []byte,
	signature []byte,
	sender common.Address,
	canonical CanonicalIdentifier,
) (*BalanceProofSignedState, error) {
	if err := validateBalanceFields(nonce, transferredAmount, lockedAmount, locksroot, canonical); err != nil {
		return nil, err
	}
	if len(messageHash) != 32 {
		return nil, ErrInvalidMessageHash
	}
	if len(signature) != crypto.SignatureLength {
		return nil, ErrInvalidSignature
	}
	balanceHash, err := crypto.HashBalanceData(transferredAmount, lockedAmount, locksroot)
	if err != nil {
		return nil, err
	}
	return &BalanceProofSignedState{
		Nonce:               nonce,
		TransferredAmount:   new(big.Int).Set(transferredAmount),
		LockedAmount:        new(big.Int).Set(lockedAmount),
		Locksroot:           append([]byte(nil), locksroot...),
		MessageHash:         append([]byte(nil), messageHash...),
		Signature:           append([]byte(nil), signature...),
		Sender:              sender,
		CanonicalIdentifier: canonical,
		BalanceHash:         balanceHash,
	}, nil
}

func (bp *BalanceProofSignedState) Copy() State {
	cp := *bp
	cp.TransferredAmount = new(big.Int).Set(bp.TransferredAmount)
	cp.LockedAmount = new(big.Int).Set(bp.LockedAmount)
	cp.Locksroot = append([]byte(nil), bp.Locksroot...)
	cp.MessageHash = append([]byte(nil), bp.MessageHash...)
	cp.Signature = append([]byte(nil), bp.Signature...)
	return &cp
}

func (bp *BalanceProofSignedState) ChainID() ChainID {
	return bp.CanonicalIdentifier.ChainID
}

func (bp *BalanceProofSignedState) TokenNetworkAddress() common.Address {
	return bp.CanonicalIdentifier.TokenNetworkAddress
}

func (bp *BalanceProofSignedState) ChannelID() ChannelID {
	return bp.CanonicalIdentifier.ChannelID
}

func (bp *BalanceProofSignedState) String() string {
	return fmt.Sprintf(
		"BalanceProofSignedState(nonce=%d transferred=%s locked=%s locksroot=%s sender=%s %s balance_hash=%s)",
		bp.Nonce, bp.TransferredAmount, bp.LockedAmount, hexutil.Encode(bp.Locksroot),
		bp.Sender.Hex(), bp.CanonicalIdentifier, bp.BalanceHash.Hex(),
	)
}

func validateBalanceFields(
	nonce Nonce,
	transferredAmount *big.Int,
	lockedAmount *big.Int,
	locksroot []byte,
	canonical CanonicalIdentifier,
) error {
	if nonce == 0 {
		return ErrZeroNonce
	}
	for _, amount := range []*big.Int{transferredAmount, lockedAmount} {
		if amount == nil || amount.Sign() < 0 {
			return ErrNegativeAmount
		}
		if amount.Cmp(maxTokenAmount) > 0 {
			return ErrAmountTooLarge
		}
	}
	if len(locksroot) != crypto.LocksrootLength {
		return ErrInvalidLocksroot
	}
	return canonical.Validate()
}
