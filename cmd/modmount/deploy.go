package main

import (
	"github.com/urfave/cli/v2"
	"sirherobrine23.com.br/go-bds/modmount/host"
	"sirherobrine23.com.br/go-bds/modmount/overlayfs"
)

var deployCommand = cli.Command{
	Name:      "deploy",
	Aliases:   []string{"d"},
	Usage:     "Merge modules and mount in system",
	ArgsUsage: "[module...]",
	Flags:     commandFlags,
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		if !overlayfs.Deploy(host.NewLocal(), cfg, cfg.Modules, cfg.ZygiskLib, cfg.BinPath) {
			return cli.Exit("cannot deploy modules", 1)
		}
		return nil
	},
}
