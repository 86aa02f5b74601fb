package flooring

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const flooringABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "operator", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "onBehalfOf", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "collection", "type": "address"},
      {"indexed": false, "internalType": "uint256[]", "name": "tokenIds", "type": "uint256[]"}
    ],
    "name": "FragmentNft",
    "type": "event"
  },
  {
    "inputs": [{"internalType": "address", "name": "collection", "type": "address"}],
    "name": "collectionInfo",
    "outputs": [
      {"internalType": "address", "name": "fragmentToken", "type": "address"},
      {"internalType": "uint256", "name": "freeNftLength", "type": "uint256"},
      {"internalType": "uint64", "name": "lastUpdatedBucket", "type": "uint64"},
      {"internalType": "uint64", "name": "nextKeyId", "type": "uint64"},
      {"internalType": "uint64", "name": "activeSafeBoxCnt", "type": "uint64"},
      {"internalType": "uint64", "name": "infiniteCnt", "type": "uint64"},
      {"internalType": "uint64", "name": "nextActivityId", "type": "uint64"}
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	flooringABI     abi.ABI
	flooringABIOnce sync.Once
	flooringABIErr  error
)

// ABI returns the parsed Flooring contract ABI.
func ABI() (abi.ABI, error) {
	flooringABIOnce.Do(func() {
		flooringABI, flooringABIErr = abi.JSON(strings.NewReader(flooringABIJSON))
	})
	return flooringABI, flooringABIErr
}

// FragmentNftTopic returns the topic0 hash of the FragmentNft event, used
// to filter the log subscription.
func FragmentNftTopic() (common.Hash, error) {
	parsed, err := ABI()
	if err != nil {
		return common.Hash{}, err
	}
	return parsed.Events["FragmentNft"].ID, nil
}
