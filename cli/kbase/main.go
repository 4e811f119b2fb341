package main

import (
	"os"

	kbasecmder "github.com/techcorp/kbase/cmd/kbase"
)

func main() {
	cmd := kbasecmder.NewKbaseCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
