package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func run(args []string) int {
	if len(args) < 2 {
		usage(args)
		return 1
	}

	switch args[1] {
	case "capture":
		return runCapture(args[2:])
	case "verify":
		return runVerify(args[2:])
	case "testdata":
		return runTestdata(args[2:])
	case "demo":
		return runDemo(args[2:])
	}

	usage(args)
	return 1
}

func usage(args []string) {
	name := "upe"
	if len(args) > 0 && args[0] != "" {
		name = filepath.Base(args[0])
	}
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "  %s capture --domain <domain> --body <file> --cert <file> --out <dir> [--timestamp <unix>] [--seed-hex <hex>]\n", name)
	fmt.Fprintf(os.Stderr, "  %s verify --in <dir> --domain <domain> [--max-age <seconds>] [--now <unix>]\n", name)
	fmt.Fprintf(os.Stderr, "  %s testdata [--out <file>] [--seed-hex <hex>]\n", name)
	fmt.Fprintf(os.Stderr, "  %s demo [--chain <solana|stellar|evm>] [--statement <file>]\n", name)
}

func writeOutput(path string, payload []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(payload)
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}
