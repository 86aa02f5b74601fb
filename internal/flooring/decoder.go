package flooring

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/mteam88/rand-floor-monitor/internal/model"
)

// ParseFragmentNft decodes a FragmentNft log into a FragmentEvent.
func ParseFragmentNft(log types.Log) (model.FragmentEvent, error) {
	parsed, err := ABI()
	if err != nil {
		return model.FragmentEvent{}, fmt.Errorf("parse flooring abi: %w", err)
	}
	event := parsed.Events["FragmentNft"]

	if len(log.Topics) == 0 {
		return model.FragmentEvent{}, fmt.Errorf("missing topics")
	}
	if log.Topics[0] != event.ID {
		return model.FragmentEvent{}, fmt.Errorf("unexpected topic0: %s", log.Topics[0].Hex())
	}

	indexedArgs := indexedArguments(event.Inputs)
	if len(log.Topics) != len(indexedArgs)+1 {
		return model.FragmentEvent{}, fmt.Errorf("expected %d topics, got %d", len(indexedArgs)+1, len(log.Topics))
	}

	var indexed struct {
		Operator   common.Address
		OnBehalfOf common.Address
		Collection common.Address
	}
	if err := abi.ParseTopics(&indexed, indexedArgs, log.Topics[1:]); err != nil {
		return model.FragmentEvent{}, fmt.Errorf("parse topics: %w", err)
	}

	values, err := event.Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return model.FragmentEvent{}, fmt.Errorf("unpack FragmentNft: %w", err)
	}
	if len(values) != 1 {
		return model.FragmentEvent{}, fmt.Errorf("unexpected FragmentNft values: %d", len(values))
	}

	tokenIDs, ok := values[0].([]*big.Int)
	if !ok {
		return model.FragmentEvent{}, fmt.Errorf("unsupported tokenIds type %T", values[0])
	}
	if len(tokenIDs) == 0 {
		return model.FragmentEvent{}, fmt.Errorf("empty tokenIds")
	}

	return model.FragmentEvent{
		Operator:    strings.ToLower(indexed.Operator.Hex()),
		OnBehalfOf:  strings.ToLower(indexed.OnBehalfOf.Hex()),
		Collection:  strings.ToLower(indexed.Collection.Hex()),
		TokenIDs:    tokenIDs,
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash.Hex(),
	}, nil
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(args))
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}
