package main

import (
	"fmt"
	"path"

	"github.com/urfave/cli/v2"
	"sirherobrine23.com.br/go-bds/modmount/overlayfs"
)

var statusCommand = cli.Command{
	Name:    "status",
	Aliases: []string{"s"},
	Usage:   "List mounts in system and partitions folders",
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		mounts, err := overlayfs.ReadMounts()
		if err != nil {
			return err
		}

		targets := []string{cfg.RootPath()}
		for _, name := range cfg.Partitions {
			targets = append(targets, path.Join("/", name))
		}
		for _, target := range targets {
			for _, mount := range mounts.Under(target) {
				fmt.Printf("%s\t%s\t%s\n", mount.Path, mount.Type, mount.Device)
			}
		}
		return nil
	},
}
