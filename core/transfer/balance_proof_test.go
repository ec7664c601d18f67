package transfer

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"paych/crypto"
)

func validCanonicalIdentifier() CanonicalIdentifier {
	return CanonicalIdentifier{
		ChainID:             1,
		TokenNetworkAddress: common.HexToAddress("0x21f6A9a1f2Ad3F6cbB166EDD53C44a216489B34b"),
		ChannelID:           7,
	}
}

func TestNewBalanceProofUnsignedState(t *testing.T) {
	zeroLocksroot := make([]byte, 32)
	maxAmount := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	tests := []struct {
		name        string
		nonce       Nonce
		transferred *big.Int
		locked      *big.Int
		locksroot   []byte
		canonical   CanonicalIdentifier
		wantErr     error
	}{
		{
			name:        "valid",
			nonce:       5,
			transferred: big.NewInt(100),
			locked:      big.NewInt(0),
			locksroot:   zeroLocksroot,
			canonical:   validCanonicalIdentifier(),
		},
		{
			name:        "maximum amount",
			nonce:       1,
			transferred: maxAmount,
			locked:      big.NewInt(0),
			locksroot:   zeroLocksroot,
			canonical:   validCanonicalIdentifier(),
		},
		{
			name:        "zero nonce",
			nonce:       0,
			transferred: big.NewInt(100),
			locked:      big.NewInt(0),
			locksroot:   zeroLocksroot,
			canonical:   validCanonicalIdentifier(),
			wantErr:     ErrZeroNonce,
		},
		{
			name:        "negative transferred amount",
			nonce:       1,
			transferred: big.NewInt(-1),
			locked:      big.NewInt(0),
			locksroot:   zeroLocksroot,
			canonical:   validCanonicalIdentifier(),
			wantErr:     ErrNegativeAmount,
		},
		{
			name:        "transferred amount too large",
			nonce:       1,
			transferred: new(big.Int).Add(maxAmount, big.NewInt(1)),
			locked:      big.NewInt(0),
			locksroot:   zeroLocksroot,
			canonical:   validCanonicalIdentifier(),
			wantErr:     ErrAmountTooLarge,
		},
		{
			name:        "negative locked amount",
			nonce:       1,
			transferred: big.NewInt(100),
			locked:      big.NewInt(-1),
			locksroot:   zeroLocksroot,
			canonical:   validCanonicalIdentifier(),
			wantErr:     ErrNegativeAmount,
		},
		{
			name:        "locked amount too large",
			nonce:       1,
			transferred: big.NewInt(100),
			locked:      new(big.Int).Add(maxAmount, big.NewInt(1)),
			locksroot:   zeroLocksroot,
			canonical:   validCanonicalIdentifier(),
			wantErr:     ErrAmountTooLarge,
		},
		{
			name:        "locksroot too short",
			nonce:       1,
			transferred: big.NewInt(100),
			locked:      big.NewInt(0),
			locksroot:   make([]byte, 31),
			canonical:   validCanonicalIdentifier(),
			wantErr:     ErrInvalidLocksroot,
		},
		{
			name:        "locksroot too long",
			nonce:       1,
			transferred: big.NewInt(100),
			locked:      big.NewInt(0),
			locksroot:   make([]byte, 33),
			canonical:   validCanonicalIdentifier(),
			wantErr:     ErrInvalidLocksroot,
		},
		{
			name:        "invalid canonical identifier",
			nonce:       1,
			transferred: big.NewInt(100),
			locked:      big.NewInt(0),
			locksroot:   zeroLocksroot,
			canonical:   CanonicalIdentifier{},
			wantErr:     ErrInvalidChainID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proof, err := NewBalanceProofUnsignedState(tt.nonce, tt.transferred, tt.locked, tt.locksroot, tt.canonical)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("construction failed: %v", err)
			}

			want, err := crypto.HashBalanceData(tt.transferred, tt.locked, tt.locksroot)
			if err != nil {
				t.Fatalf("hashing balance data: %v", err)
			}
			if proof.BalanceHash != want {
				t.Fatalf("balance hash %s not recomputed from fields, want %s", proof.BalanceHash.Hex(), want.Hex())
			}
		})
	}
}

func TestBalanceProofUnsignedStateDoesNotAliasInputs(t *testing.T) {
	transferred := big.NewInt(100)
	locksroot := make([]byte, 32)

	proof, err := NewBalanceProofUnsignedState(5, transferred, big.NewInt(0), locksroot, validCanonicalIdentifier())
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	transferred.SetInt64(999)
	locksroot[0] = 0xff

	if proof.TransferredAmount.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("transferred amount aliased caller memory: %s", proof.TransferredAmount)
	}
	if proof.Locksroot[0] != 0 {
		t.Fatal("locksroot aliased caller memory")
	}
}

func TestBalanceProofCopySharesNoMemory(t *testing.T) {
	proof, err := NewBalanceProofUnsignedState(5, big.NewInt(100), big.NewInt(3), make([]byte, 32), validCanonicalIdentifier())
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	cp := proof.Copy().(*BalanceProofUnsignedState)
	cp.TransferredAmount.SetInt64(1)
	cp.Locksroot[0] = 0xaa

	if proof.TransferredAmount.Cmp(big.NewInt(100)) != 0 {
		t.Fatal("copy shares the transferred amount")
	}
	if proof.Locksroot[0] != 0 {
		t.Fatal("copy shares the locksroot")
	}
}

func TestNewBalanceProofSignedState(t *testing.T) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}

	messageHash := bytes.Repeat([]byte{0x11}, 32)
	signature, err := key.Sign(messageHash)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	proof, err := NewBalanceProofSignedState(
		5, big.NewInt(100), big.NewInt(0), make([]byte, 32),
		messageHash, signature, key.Address(), validCanonicalIdentifier(),
	)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	sender, err := crypto.RecoverSender(proof.MessageHash, proof.Signature)
	if err != nil {
		t.Fatalf("recovering sender: %v", err)
	}
	if sender != proof.Sender {
		t.Fatalf("recovered %s, proof carries %s", sender.Hex(), proof.Sender.Hex())
	}

	want, err := crypto.HashBalanceData(big.NewInt(100), big.NewInt(0), make([]byte, 32))
	if err != nil {
		t.Fatalf("hashing balance data: %v", err)
	}
	if proof.BalanceHash != want {
		t.Fatalf("balance hash %s, want %s", proof.BalanceHash.Hex(), want.Hex())
	}
}

func TestNewBalanceProofSignedStateRejectsMalformedAuthFields(t *testing.T) {
	tests := []struct {
		name        string
		messageHash []byte
		signature   []byte
		wantErr     error
	}{
		{"short message hash", make([]byte, 31), make([]byte, 65), ErrInvalidMessageHash},
		{"long message hash", make([]byte, 33), make([]byte, 65), ErrInvalidMessageHash},
		{"short signature", make([]byte, 32), make([]byte, 64), ErrInvalidSignature},
		{"long signature", make([]byte, 32), make([]byte, 66), ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBalanceProofSignedState(
				1, big.NewInt(0), big.NewInt(0), make([]byte, 32),
				tt.messageHash, tt.signature, common.Address{}, validCanonicalIdentifier(),
			)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}
