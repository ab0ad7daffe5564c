package artifact

import (
	"crypto/sha256"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Canonical mode makes the encoding deterministic: the same expression
// graph always produces the same bytes, and therefore the same hash.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("artifact: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal serializes an Artifact to canonical CBOR bytes.
func Marshal(a *Artifact) ([]byte, error) {
	return cborEncMode.Marshal(a)
}

// Unmarshal deserializes an Artifact from CBOR bytes.
func Unmarshal(data []byte) (*Artifact, error) {
	var a Artifact
	if err := cbor.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("artifact: unmarshal: %w", err)
	}
	if a.Version != ArtifactVersion {
		return nil, fmt.Errorf("artifact: unsupported version %d", a.Version)
	}
	return &a, nil
}

// Hash computes the SHA-256 content hash of the artifact's canonical
// encoding.
func Hash(a *Artifact) ([32]byte, error) {
	data, err := Marshal(a)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(data), nil
}
