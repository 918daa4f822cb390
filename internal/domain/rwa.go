package domain

import "encoding/binary"

// RwaClaim asserts that an institution holds at least Threshold of an
// asset. Balance and Signature are private witness data: they go into the
// prover's input and never into any public output. InstitutionalPubkey
// and Threshold are the public portion.
type RwaClaim struct {
	// Ed25519 public key identifying the signing institution.
	InstitutionalPubkey [32]byte `json:"institutional_pubkey"`

	// Balance in the smallest currency unit. Private.
	Balance uint64 `json:"balance"`

	// Minimum compliant balance. Public.
	Threshold uint64 `json:"threshold"`

	// Ed25519 signature over MessageToSign, by the institution. Private.
	Signature [64]byte `json:"signature"`
}

func NewRwaClaim(pubkey [32]byte, balance, threshold uint64, sig [64]byte) RwaClaim {
	return RwaClaim{
		InstitutionalPubkey: pubkey,
		Balance:             balance,
		Threshold:           threshold,
		Signature:           sig,
	}
}

// MessageToSign returns the signed message for the plain claim variant:
// the balance as 8 little-endian bytes. This convention is independent of
// the notary's big-endian ECDSA protocol and must not be conflated with it.
func (c RwaClaim) MessageToSign() [8]byte {
	var msg [8]byte
	binary.LittleEndian.PutUint64(msg[:], c.Balance)
	return msg
}

// Compliant reports the compliance predicate. The predicate itself is what
// the external proving step establishes without revealing Balance; here it
// only serves as a structural pre-check.
func (c RwaClaim) Compliant() bool {
	return c.Balance >= c.Threshold
}

// RwaClaimWithProof extends RwaClaim with a Merkle inclusion witness tying
// the balance to an institutional commitment. TreeSize is carried
// explicitly: inferring the leaf count from the proof length only holds
// for power-of-two trees.
type RwaClaimWithProof struct {
	RwaClaim

	// Root of the institution's balance tree. Public.
	MerkleRoot [32]byte `json:"merkle_root"`

	// Sibling hashes from leaf to root. Private.
	MerkleProof [][32]byte `json:"merkle_proof"`

	// Position of this balance's leaf.
	LeafIndex int `json:"leaf_index"`

	// Total number of leaves in the tree.
	TreeSize int `json:"tree_size"`
}

// RwaPublicValues is the only claim data a proof commits publicly.
type RwaPublicValues struct {
	InstitutionalPubkey [32]byte `json:"institutional_pubkey"`
	Threshold           uint64   `json:"threshold"`
}

func PublicValuesFromClaim(c RwaClaim) RwaPublicValues {
	return RwaPublicValues{
		InstitutionalPubkey: c.InstitutionalPubkey,
		Threshold:           c.Threshold,
	}
}
