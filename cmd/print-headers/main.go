// Prints the Content-Security-Policy and Permissions-Policy header values
// for static hosting configs.
// Usage: go run ./cmd/print-headers [-extension] [-networks networks.yaml]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/AlexZinkM/rose-wallet/internal/config"
	"github.com/AlexZinkM/rose-wallet/internal/security"
)

func main() {
	extension := flag.Bool("extension", false, "relax frame-ancestors for the browser extension build")
	networksFile := flag.String("networks", "", "networks YAML merged over the built-in endpoints")
	flag.Parse()

	networks, err := config.LoadNetworks(*networksFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("Content-Security-Policy: " + security.ContentSecurityPolicy(security.CSPOptions{
		Extension:  *extension,
		ConnectSrc: networks.Origins(),
	}))
	fmt.Println("Permissions-Policy: " + security.PermissionsPolicy())
}
