package cmd

import (
	"github.com/Jianli-Huang/GAMES101/log"
	"github.com/urfave/cli"
)

var logger = log.New("bvhaccel")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
