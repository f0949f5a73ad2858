package main

import (
	"github.com/robotalks/accstream/pkg/cli/sh"
	"github.com/robotalks/accstream/pkg/env"

	_ "github.com/robotalks/accstream/pkg/cli/cmds/pipeline"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
