package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/merkle"
)

// testBalances simulates an institution's customer ledger, in cents.
// Account 5 (index 4) is the proof subject.
var testBalances = []uint64{
	5_000_000,  // $50,000
	10_000_000, // $100,000
	7_500_000,  // $75,000
	2_000_000,  // $20,000
	15_000_000, // $150,000, proof subject
	3_000_000,  // $30,000
	8_000_000,  // $80,000
	1_000_000,  // $10,000
	12_000_000, // $120,000
	6_000_000,  // $60,000
}

const (
	testSubjectIndex = 4
	testThreshold    = 10_000_000 // $100,000
)

// runTestdata builds the sample institutional dataset: a balance tree, an
// ed25519-signed claim for one account and its inclusion proof.
func runTestdata(args []string) int {
	fs := flag.NewFlagSet("testdata", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var outPath string
	var seedHex string

	fs.StringVar(&outPath, "out", "", "output claim path (default stdout)")
	fs.StringVar(&seedHex, "seed-hex", "", "institutional ed25519 seed hex (default random)")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	priv, err := institutionalKey(seedHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init institutional key: %v\n", err)
		return 1
	}
	pub := priv.Public().(ed25519.PublicKey)

	tree, err := merkle.NewTree(testBalances)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build balance tree: %v\n", err)
		return 1
	}
	root, err := tree.Root()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tree root: %v\n", err)
		return 1
	}
	path, err := tree.InclusionProof(testSubjectIndex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inclusion proof: %v\n", err)
		return 1
	}

	var pubkey [32]byte
	copy(pubkey[:], pub)
	claim := domain.NewRwaClaim(pubkey, testBalances[testSubjectIndex], testThreshold, [64]byte{})
	msg := claim.MessageToSign()
	copy(claim.Signature[:], ed25519.Sign(priv, msg[:]))

	withProof := domain.RwaClaimWithProof{
		RwaClaim:    claim,
		MerkleRoot:  root,
		MerkleProof: path,
		LeafIndex:   testSubjectIndex,
		TreeSize:    tree.Size(),
	}

	payload, err := json.MarshalIndent(withProof, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal claim: %v\n", err)
		return 1
	}
	if err := writeOutput(outPath, append(payload, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "accounts=%d subject_index=%d balance=%d threshold=%d compliant=%t\n",
		len(testBalances), testSubjectIndex, claim.Balance, claim.Threshold, claim.Compliant())
	fmt.Fprintf(os.Stderr, "merkle_root=%s proof_len=%d institutional_pubkey=%s\n",
		hex.EncodeToString(root[:]), len(path), hex.EncodeToString(pub))
	return 0
}

func institutionalKey(seedHex string) (ed25519.PrivateKey, error) {
	if seedHex == "" {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		return priv, err
	}
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("decode seed hex: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return ed25519.NewKeyFromSeed(seed), nil
}
