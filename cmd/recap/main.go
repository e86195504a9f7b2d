package main

import (
	"fmt"
	"os"

	"meeting-recap/cmd/recap/cmd"
	"meeting-recap/internal/config"
)

func main() {
	// Missing keys only matter to the commands that need them; those
	// commands fail in PreRunE.
	if _, err := config.InitializeConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Configuration Warning: %v\n", err)
	}

	cmd.Execute()
}
