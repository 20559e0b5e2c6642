package asset

import (
	"encoding/binary"

	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/utils/hashes"
)

// mintedAssetTypeMarker is the first byte of every asset type created by a
// mint transaction.
const mintedAssetTypeMarker = 0x53

// assetTypePrefixSize is the length of the asset type prefix that carries the
// marker and the shard id.
const assetTypePrefixSize = 8

// ShardID returns the shard an asset type belongs to: the big-endian integer
// in bytes 2 and 3 of the asset type.
func ShardID(assetType externalapi.AssetType) uint16 {
	return binary.BigEndian.Uint16(assetType[2:4])
}

// MintedAssetType returns the asset type minted on shardID by the mint
// transaction whose hash is txHash:
// 0x53 0x00 shardID(2) 0x00 0x00 0x00 0x00 ‖ Blake256WithKey(txHash, prefix)[8:]
func MintedAssetType(shardID uint16, txHash externalapi.H256) externalapi.AssetType {
	var prefix [assetTypePrefixSize]byte
	prefix[0] = mintedAssetTypeMarker
	binary.BigEndian.PutUint16(prefix[2:4], shardID)

	// An 8 byte key is always accepted.
	digest, _ := hashes.Blake256WithKey(txHash[:], prefix[:])

	var assetType externalapi.AssetType
	copy(assetType[:assetTypePrefixSize], prefix[:])
	copy(assetType[assetTypePrefixSize:], digest[assetTypePrefixSize:])
	return assetType
}
