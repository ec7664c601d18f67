package transfer

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ChainID identifies the blockchain a channel lives on.
type ChainID uint64

// ChannelID identifies one channel inside a token network contract.
type ChannelID uint64

// MessageID identifies one protocol message end to end, chosen by the sender.
type MessageID uint64

// Nonce orders balance proofs within a channel. Strictly increasing, starts
// at one; zero marks an absent proof.
type Nonce uint64

var (
	ErrInvalidChainID             = errors.New("chain identifier cannot be zero")
	ErrInvalidTokenNetworkAddress = errors.New("token network address cannot be the zero address")
	ErrInvalidChannelID           = errors.New("channel identifier cannot be zero")
)

// CanonicalIdentifier globally identifies a channel: the chain, the token
// network contract on that chain, and the channel inside the contract.
type CanonicalIdentifier struct {
	ChainID             ChainID        `json:"chainId"`
	TokenNetworkAddress common.Address `json:"tokenNetworkAddress"`
	ChannelID           ChannelID      `json:"channelId"`
}

// Validate reports whether all three components are set. A zero component
// means the identifier was built from an uninitialised or corrupted source
// and must not be embedded in a balance proof.
func (id CanonicalIdentifier) Validate() error {
	if id.ChainID == 0 {
		return ErrInvalidChainID
	}
	if id.TokenNetworkAddress == (common.Address{}) {
		return ErrInvalidTokenNetworkAddress
	}
	if id.ChannelID == 0 {
		return ErrInvalidChannelID
	}
	return nil
}

func (id CanonicalIdentifier) String() string {
	return fmt.Sprintf("CanonicalIdentifier(chain=%d token_network=%s channel=%d)",
		id.ChainID, id.TokenNetworkAddress.Hex(), id.ChannelID)
}

// QueueIdentifier routes outbound messages into per-recipient, per-channel
// ordered queues. Derived once when a message event is constructed.
type QueueIdentifier struct {
	Recipient           common.Address      `json:"recipient"`
	CanonicalIdentifier CanonicalIdentifier `json:"canonicalIdentifier"`
}

func (q QueueIdentifier) String() string {
	return fmt.Sprintf("QueueIdentifier(recipient=%s %s)", q.Recipient.Hex(), q.CanonicalIdentifier)
}
