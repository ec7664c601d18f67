package transfer

import "github.com/ethereum/go-ethereum/common"

// AuthenticatedSenderStateChange is the common part of state changes for
// which the sender's signature has already been verified at the boundary.
type AuthenticatedSenderStateChange struct {
	Sender common.Address `json:"sender"`
}

// ContractReceiveStateChange is the common part of state changes which
// represent on-chain logs: the transaction that emitted the log and the block
// it was observed in.
type ContractReceiveStateChange struct {
	TransactionHash common.Hash `json:"transactionHash"`
	BlockNumber     uint64      `json:"blockNumber"`
	BlockHash       common.Hash `json:"blockHash"`
}
