package main

import (
	"log"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/config"
	httpinfra "github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/http"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/notary"
)

func main() {
	cfg := config.FromEnv()

	signer, err := notary.NewSigner(cfg.NotaryPrivateKey)
	if err != nil {
		log.Fatalf("failed to init notary signer: %v", err)
	}
	log.Printf("notary address: %s", signer.Address())

	srv := httpinfra.NewServer(cfg, signer)
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
