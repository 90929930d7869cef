package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"sirherobrine23.com.br/go-bds/modmount/host"
	"sirherobrine23.com.br/go-bds/modmount/overlayfs"
)

var treeCommand = cli.Command{
	Name:      "tree",
	Aliases:   []string{"t"},
	Usage:     "Print merged tree without mount",
	ArgsUsage: "[module...]",
	Flags:     commandFlags,
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		root, err := overlayfs.Plan(host.NewLocal(), cfg, cfg.Modules, cfg.ZygiskLib, cfg.BinPath)
		if err != nil {
			return err
		}
		return overlayfs.Dump(os.Stdout, root, cfg.RootPath())
	},
}
