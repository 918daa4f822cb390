package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/usecase"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/pkg/capture"
)

func runCapture(args []string) int {
	fs := flag.NewFlagSet("capture", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var domainName string
	var bodyPath string
	var certPath string
	var outDir string
	var timestamp uint64
	var seedHex string

	fs.StringVar(&domainName, "domain", "", "domain the response came from")
	fs.StringVar(&bodyPath, "body", "", "response body file")
	fs.StringVar(&certPath, "cert", "", "certificate chain file (PEM)")
	fs.StringVar(&outDir, "out", "", "output fixture directory")
	fs.Uint64Var(&timestamp, "timestamp", 0, "recording time as unix seconds (default now)")
	fs.StringVar(&seedHex, "seed-hex", "", "ed25519 notary seed hex (default random)")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if domainName == "" || bodyPath == "" || certPath == "" || outDir == "" {
		fmt.Fprintln(os.Stderr, "capture requires --domain, --body, --cert and --out")
		return 1
	}

	body, err := os.ReadFile(bodyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read body: %v\n", err)
		return 1
	}
	cert, err := os.ReadFile(certPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read cert chain: %v\n", err)
		return 1
	}

	sess, err := newSession(seedHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init notary session: %v\n", err)
		return 1
	}

	if timestamp == 0 {
		timestamp = uint64(time.Now().Unix())
	}
	proof := sess.RecordAt(domainName, body, cert, timestamp)

	if err := capture.WriteFixture(outDir, capture.Fixture{Proof: proof, CertChain: cert, Body: body}); err != nil {
		fmt.Fprintf(os.Stderr, "write fixture: %v\n", err)
		return 1
	}
	fmt.Printf("fixture=%s notary_pubkey=%s timestamp=%d\n", outDir, proof.NotaryPubkey, proof.Timestamp)
	return 0
}

func newSession(seedHex string) (*capture.Session, error) {
	if seedHex == "" {
		return capture.NewSession()
	}
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("decode seed hex: %w", err)
	}
	return capture.NewSessionFromSeed(seed)
}

func runVerify(args []string) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var inDir string
	var domainName string
	var maxAge uint64
	var now uint64

	fs.StringVar(&inDir, "in", "", "fixture directory")
	fs.StringVar(&domainName, "domain", "", "expected domain")
	fs.Uint64Var(&maxAge, "max-age", 3600, "maximum proof age in seconds")
	fs.Uint64Var(&now, "now", 0, "verification time as unix seconds (default now)")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if inDir == "" || domainName == "" {
		fmt.Fprintln(os.Stderr, "verify requires --in and --domain")
		return 1
	}

	fx, err := capture.LoadFixture(inDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 1
	}
	if now == 0 {
		now = uint64(time.Now().Unix())
	}

	if err := usecase.VerifyRecordedTLSProof(fx.Proof, domainName, fx.CertChain, fx.Body, now, maxAge); err != nil {
		fmt.Printf("status=fail reason=%v\n", err)
		return 1
	}
	fmt.Printf("status=pass domain=%s timestamp=%d notary_pubkey=%s\n", fx.Proof.Domain, fx.Proof.Timestamp, fx.Proof.NotaryPubkey)
	return 0
}
