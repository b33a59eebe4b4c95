package main

import (
	"log"

	"github.com/anoixa/gen-studio/cmd"
	"github.com/anoixa/gen-studio/config"
)

func main() {
	log.Printf("gen-studio %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
