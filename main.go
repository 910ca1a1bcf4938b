package main

import (
	"context"

	"github.com/opalaxis/beamsolopex-companion/cmd"
)

func main() {
	cmd.Execute(context.Background())
}
