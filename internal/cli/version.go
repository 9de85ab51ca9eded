package cli

import "fmt"

// Version is the archlens release version.
const Version = "0.1.0"

func cmdVersion() error {
	fmt.Printf("archlens %s\n", Version)
	return nil
}
