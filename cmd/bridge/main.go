package main

import (
	"github.com/indusnetwork/bridge/internal/cli"
)

func main() {
	cli.Execute()
}
