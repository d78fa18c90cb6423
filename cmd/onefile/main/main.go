package main

import (
	"fmt"
	"os"

	onefile "github.com/arthur-debert/onefile/cmd/onefile"
	"github.com/arthur-debert/onefile/pkg/ui/styles"

	// Register the built-in custom processors
	_ "github.com/arthur-debert/onefile/pkg/actions"
)

func main() {
	rootCmd := onefile.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := styles.Get("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
