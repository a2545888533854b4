package main

import (
	"fmt"
	"os"

	"github.com/omaradel/manaboard/core"
	"github.com/omaradel/manaboard/core/auth"
	"github.com/omaradel/manaboard/core/session"
	"github.com/omaradel/manaboard/storage/tokenfile"
)

func main() {
	store := session.NewStore(tokenfile.NewRepository(core.Conf.TokenFile))

	cli := &commandLine{
		store:   store,
		gateway: auth.NewGateway(core.Conf, store),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
