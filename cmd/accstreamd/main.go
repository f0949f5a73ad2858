package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/robotalks/accstream/pkg/env"
	fx "github.com/robotalks/accstream/pkg/framework"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()

	e := env.NewConfig().MustNewEnv()
	defer e.Close()
	runner := fx.NewRunner().HandleSignals()
	fx.NewLoop().Add(e).RunOrFail(runner.Context)
}
