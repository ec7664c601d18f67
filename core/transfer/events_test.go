package transfer

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestSendMessageEventDerivesQueueIdentifier(t *testing.T) {
	recipient := common.HexToAddress("0x2B5634C42055806a59e9107ED44D43c426E58258")
	canonical := validCanonicalIdentifier()

	first := NewSendMessageEvent(recipient, canonical, 1)
	second := NewSendMessageEvent(recipient, canonical, 2)

	if first.QueueIdentifier != second.QueueIdentifier {
		t.Fatalf("same (recipient, canonical identifier) produced different queues: %s vs %s",
			first.QueueIdentifier, second.QueueIdentifier)
	}

	otherChannel := canonical
	otherChannel.ChannelID = 8
	third := NewSendMessageEvent(recipient, otherChannel, 3)
	if first.QueueIdentifier == third.QueueIdentifier {
		t.Fatal("different channels must route to different queues")
	}
}

func TestCanonicalIdentifierValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CanonicalIdentifier)
		wantErr error
	}{
		{"valid", func(*CanonicalIdentifier) {}, nil},
		{"zero chain", func(id *CanonicalIdentifier) { id.ChainID = 0 }, ErrInvalidChainID},
		{"zero token network", func(id *CanonicalIdentifier) { id.TokenNetworkAddress = common.Address{} }, ErrInvalidTokenNetworkAddress},
		{"zero channel", func(id *CanonicalIdentifier) { id.ChannelID = 0 }, ErrInvalidChannelID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := validCanonicalIdentifier()
			tt.mutate(&id)
			if err := id.Validate(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
