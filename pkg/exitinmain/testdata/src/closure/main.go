package main

import (
	"log"
	"os"
)

func main() {
	stop := func() {
		os.Exit(0)
	}
	defer stop()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	return nil
}
