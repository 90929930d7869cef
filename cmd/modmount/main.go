package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"sirherobrine23.com.br/go-bds/modmount/config"
)

var commandFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "zygisk-lib",
		Usage:   "Library file name redirected in lib folders, \"0\" to disable",
		EnvVars: []string{"MODMOUNT_ZYGISK_LIB"},
	},
	&cli.StringFlag{
		Name:    "bin-path",
		Usage:   "Folder to inject binaries, blank to disable",
		EnvVars: []string{"MODMOUNT_BIN_PATH"},
	},
}

// Load config file and override with flags and args
func loadConfig(ctx *cli.Context) (cfg *config.Config, err error) {
	if file := ctx.String("config"); file != "" {
		if cfg, err = config.Load(file); err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	if ctx.IsSet("tmp") {
		cfg.Tmp = ctx.String("tmp")
	}
	if ctx.IsSet("zygisk-lib") {
		cfg.ZygiskLib = ctx.String("zygisk-lib")
	}
	if ctx.IsSet("bin-path") {
		cfg.BinPath = ctx.String("bin-path")
	}
	if ctx.Args().Present() {
		cfg.Modules = ctx.Args().Slice()
	}
	return cfg, cfg.Validate()
}

func main() {
	app := &cli.App{
		Name:  "modmount",
		Usage: "Merge modules folders and mount result in system with bind mounts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Yaml config file",
				EnvVars: []string{"MODMOUNT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "tmp",
				Usage:   "Temporary root with modules and worker folders",
				EnvVars: []string{"MODMOUNT_TMP"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Show every mount operation",
			},
		},
		Before: func(ctx *cli.Context) error {
			if ctx.Bool("debug") {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			&deployCommand,
			&treeCommand,
			&statusCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
