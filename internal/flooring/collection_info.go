package flooring

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/mteam88/rand-floor-monitor/internal/chain"
)

// FragmentToken resolves the fragment ERC-20 token pegged to a collection
// via the Flooring contract's collectionInfo view. The other returned
// fields (safe box counters, activity ids) are not used by the monitor.
func FragmentToken(ctx context.Context, chainClient *chain.Client, contract common.Address, collection common.Address) (common.Address, error) {
	if chainClient == nil {
		return common.Address{}, fmt.Errorf("chain client is nil")
	}

	parsed, err := ABI()
	if err != nil {
		return common.Address{}, fmt.Errorf("parse flooring abi: %w", err)
	}

	data, err := parsed.Pack("collectionInfo", collection)
	if err != nil {
		return common.Address{}, fmt.Errorf("pack collectionInfo: %w", err)
	}

	msg := ethereum.CallMsg{To: &contract, Data: data}
	resp, err := chainClient.CallContract(ctx, msg, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("call collectionInfo: %w", err)
	}

	values, err := parsed.Unpack("collectionInfo", resp)
	if err != nil {
		return common.Address{}, fmt.Errorf("unpack collectionInfo: %w", err)
	}
	if len(values) == 0 {
		return common.Address{}, fmt.Errorf("empty collectionInfo result")
	}

	fragmentToken, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unsupported fragmentToken type %T", values[0])
	}

	return fragmentToken, nil
}
