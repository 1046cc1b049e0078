//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "lenia-ebiten: build with -tags ebiten")
	os.Exit(2)
}
