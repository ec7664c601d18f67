package transfer

import "github.com/ethereum/go-ethereum/common"

// TransferTask is the common part of the states tracking one transfer's
// progress through a token network. Concrete tasks (initiator, mediator,
// target) embed it and provide their own Copy.
type TransferTask struct {
	TokenNetworkAddress common.Address `json:"tokenNetworkAddress"`
}
