package flooring

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func TestParseFragmentNft(t *testing.T) {
	parsed, err := ABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	event := parsed.Events["FragmentNft"]

	operator := common.HexToAddress("0x1111111111111111111111111111111111111111")
	onBehalfOf := common.HexToAddress("0x2222222222222222222222222222222222222222")
	collection := common.HexToAddress("0xED5AF388653567Af2F388E6224dC7C4b3241C544")

	tokenIDs := []*big.Int{big.NewInt(42), big.NewInt(7777)}
	data, err := event.Inputs.NonIndexed().Pack(tokenIDs)
	if err != nil {
		t.Fatalf("pack tokenIds: %v", err)
	}

	log := types.Log{
		Topics: []common.Hash{
			event.ID,
			topicFromAddress(operator),
			topicFromAddress(onBehalfOf),
			topicFromAddress(collection),
		},
		Data:        data,
		BlockNumber: 19000000,
		TxHash:      common.HexToHash("0xdeadbeef"),
	}

	decoded, err := ParseFragmentNft(log)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded.Collection != "0xed5af388653567af2f388e6224dc7c4b3241c544" {
		t.Fatalf("collection not lowercased: %s", decoded.Collection)
	}
	if decoded.Operator != "0x1111111111111111111111111111111111111111" {
		t.Fatalf("operator mismatch: %s", decoded.Operator)
	}
	if len(decoded.TokenIDs) != 2 {
		t.Fatalf("token count mismatch: %d", len(decoded.TokenIDs))
	}
	if decoded.TokenIDs[0].Int64() != 42 || decoded.TokenIDs[1].Int64() != 7777 {
		t.Fatalf("token ids mismatch: %v", decoded.TokenIDs)
	}
	if decoded.BlockNumber != 19000000 {
		t.Fatalf("block number mismatch: %d", decoded.BlockNumber)
	}
}

func TestParseFragmentNftRejectsEmptyTokenList(t *testing.T) {
	parsed, err := ABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	event := parsed.Events["FragmentNft"]

	data, err := event.Inputs.NonIndexed().Pack([]*big.Int{})
	if err != nil {
		t.Fatalf("pack empty: %v", err)
	}

	log := types.Log{
		Topics: []common.Hash{
			event.ID,
			topicFromAddress(common.HexToAddress("0x1")),
			topicFromAddress(common.HexToAddress("0x2")),
			topicFromAddress(common.HexToAddress("0x3")),
		},
		Data: data,
	}

	if _, err := ParseFragmentNft(log); err == nil {
		t.Fatalf("expected error for empty tokenIds")
	}
}

func TestParseFragmentNftRejectsWrongTopic(t *testing.T) {
	log := types.Log{
		Topics: []common.Hash{common.HexToHash("0xabc")},
	}
	if _, err := ParseFragmentNft(log); err == nil {
		t.Fatalf("expected error for unexpected topic0")
	}
}

func topicFromAddress(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}
