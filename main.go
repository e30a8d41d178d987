package main

import (
	"os"

	"github.com/kejionglee/iphall-landing-page/cmd"
	_ "github.com/kejionglee/iphall-landing-page/pkg/logger/autoload"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
