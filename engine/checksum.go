package engine

import "github.com/zeebo/blake3"

// Checksum is a BLAKE3 keyed digest of the uncompressed stream payload.
type Checksum [32]byte

// payloadDomainKey separates stream checksums from any other BLAKE3 use of
// the same bytes. ASCII, zero-padded to the 32-byte key size.
var payloadDomainKey = [32]byte{
	'm', 'e', 's', 'h', 'c', 'o', 'd', 'e', 'c', '.', 's', 't', 'r', 'e', 'a', 'm',
	'.', 'p', 'a', 'y', 'l', 'o', 'a', 'd', 0, 0, 0, 0, 0, 0, 0, 0,
}

func payloadChecksum(data []byte) Checksum {
	hasher, err := blake3.NewKeyed(payloadDomainKey[:])
	if err != nil {
		// only fails for keys that are not 32 bytes.
		panic("engine: blake3 keyed hasher: " + err.Error())
	}
	hasher.Write(data)
	var sum Checksum
	copy(sum[:], hasher.Sum(nil))
	return sum
}
