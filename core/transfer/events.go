package transfer

import "github.com/ethereum/go-ethereum/common"

// SendMessageEvent is the common part of events which represent off-chain
// protocol messages tied to a channel. The message is produced once by the
// state machine; delivery is guaranteed by the transport, not by this core.
//
// Concrete message events embed SendMessageEvent and provide their own
// EventType.
type SendMessageEvent struct {
	Recipient           common.Address      `json:"recipient"`
	CanonicalIdentifier CanonicalIdentifier `json:"canonicalIdentifier"`
	MessageIdentifier   MessageID           `json:"messageIdentifier"`
	QueueIdentifier     QueueIdentifier     `json:"queueIdentifier"`
}

// NewSendMessageEvent derives the queue identifier from the recipient and the
// canonical identifier. The returned value is complete; QueueIdentifier is
// never set after construction.
func NewSendMessageEvent(recipient common.Address, canonical CanonicalIdentifier, messageID MessageID) SendMessageEvent {
	return SendMessageEvent{
		Recipient:           recipient,
		CanonicalIdentifier: canonical,
		MessageIdentifier:   messageID,
		QueueIdentifier: QueueIdentifier{
			Recipient:           recipient,
			CanonicalIdentifier: canonical,
		},
	}
}

// ContractSendEvent is the common part of events which represent on-chain
// transactions. TriggeredByBlockHash records the block whose view of the
// chain justified the transaction.
type ContractSendEvent struct {
	TriggeredByBlockHash common.Hash `json:"triggeredByBlockHash"`
}

// ContractSendExpirableEvent is the common part of on-chain transaction
// events that stop being useful after a deadline block.
type ContractSendExpirableEvent struct {
	ContractSendEvent
	Expiration uint64 `json:"expiration"`
}
