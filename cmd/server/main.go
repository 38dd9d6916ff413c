// Package main runs the mod2mus conversion API without the CLI front end
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/james-see/mod2mus/pkg/api"
	"github.com/james-see/mod2mus/pkg/converter"
)

var version = "dev"

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	showVersion := flag.Bool("version", false, "Print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("mod2mus-server %s\n", version)
		return
	}

	fmt.Printf("mod2mus-server %s listening on :%d\n", version, *port)
	for _, conv := range converter.GetSupportedConversions() {
		fmt.Printf("  %s\n", conv)
	}
	fmt.Printf("  POST /api/v1/convert/mod2mus, /api/v1/convert/mod2mid, /api/v1/inspect\n")
	fmt.Printf("  docs: http://localhost:%d/swagger/index.html\n", *port)

	if err := api.StartServer(*port); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
