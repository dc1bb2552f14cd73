// Command shortlinksctl manages the stored links without the HTTP server.
package main

import (
	"log"
	"os"
)

func main() {
	if _, err := execute(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}
