package asset

import (
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/utils/hashes"
	"github.com/kaspanet/parcelsdk/domain/utils/rlp"
	"github.com/pkg/errors"
)

// hashItem returns the blake256 hash of the canonical encoding of item.
// Items built by this package only contain byte strings and lists, so
// encoding cannot fail.
func hashItem(item rlp.Item) externalapi.H256 {
	return hashes.Blake256(mustEncode(item))
}

func mustEncode(item rlp.Item) []byte {
	encoded, err := rlp.Encode(item)
	if err != nil {
		panic(errors.Wrap(err, "encoding failed. this should never happen for items built by this package"))
	}
	return encoded
}

func encodeByteArrays(arrays []externalapi.ByteArray) rlp.List {
	list := make(rlp.List, len(arrays))
	for i, array := range arrays {
		list[i] = rlp.Bytes(array)
	}
	return list
}

func decodeByteArrays(item rlp.Item) ([]externalapi.ByteArray, error) {
	list, err := rlp.AsList(item, -1)
	if err != nil {
		return nil, err
	}
	arrays := make([]externalapi.ByteArray, len(list))
	for i, element := range list {
		array, err := rlp.AsBytes(element)
		if err != nil {
			return nil, err
		}
		arrays[i] = externalapi.ByteArray(array)
	}
	return arrays, nil
}

func decodeH256(item rlp.Item) (externalapi.H256, error) {
	b, err := rlp.AsFixedBytes(item, externalapi.H256Size)
	if err != nil {
		return externalapi.H256{}, err
	}
	return externalapi.NewH256FromSlice(b)
}

// ToByteSlices converts parameters to the form the script engine consumes.
func ToByteSlices(arrays []externalapi.ByteArray) [][]byte {
	slices := make([][]byte, len(arrays))
	for i, array := range arrays {
		slices[i] = array
	}
	return slices
}

// FromByteSlices converts script parameters to their JSON-friendly form.
func FromByteSlices(slices [][]byte) []externalapi.ByteArray {
	arrays := make([]externalapi.ByteArray, len(slices))
	for i, slice := range slices {
		arrays[i] = append(externalapi.ByteArray(nil), slice...)
	}
	return arrays
}
