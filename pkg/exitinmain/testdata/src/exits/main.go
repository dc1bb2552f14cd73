package main

import (
	"fmt"
	"os"
	sys "os"
)

func main() {
	fmt.Println("starting")
	os.Exit(1)  // want "os.Exit call inside main function"
	sys.Exit(2) // want "os.Exit call inside main function"
}

func run() {
	os.Exit(3)
}
