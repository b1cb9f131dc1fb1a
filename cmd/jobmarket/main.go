// Package main is the entry point of the job market dashboard.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	log.SetPrefix("[jobmarket] ")

	// cobra reports the error itself
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
