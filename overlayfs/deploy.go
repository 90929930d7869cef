// Merge modules folders in one tree and mount it in system with staging folders and bind mounts
//
// Files content is never copied, module files are mounted on top of empty placeholders
package overlayfs

import (
	"path"

	"github.com/jmgilman/go/errors"
	log "github.com/sirupsen/logrus"
	"sirherobrine23.com.br/go-bds/modmount/config"
	"sirherobrine23.com.br/go-bds/modmount/host"
	"sirherobrine23.com.br/go-bds/modmount/overlayfs/mergefs"
)

// Build merged tree of config.Subtree without mount.
//
// modules are module names in priority order, last is highest priority,
// zygiskLib redirect library if not blank or "0" and binPath inject binaries if not blank
func Plan(h host.Host, cfg *config.Config, modules []string, zygiskLib, binPath string) (*Dir, error) {
	list := mergefs.NewList(h, cfg, modules)
	if binPath != "" {
		list.InjectBinaries(binPath)
	}
	if config.LibraryEnabled(zygiskLib) {
		list.InjectLibrary(zygiskLib)
	}
	return Build(h, cfg.RootPath(), list.Iter(cfg.Subtree))
}

// Merge modules and mount result in system, return false if root tree cannot be mounted.
//
// Partitions are mounted before root tree and failures in partitions are only logged,
// mounts maked before failure are not reverted
func Deploy(h host.Host, cfg *config.Config, modules []string, zygiskLib, binPath string) bool {
	if err := deploy(h, cfg, modules, zygiskLib, binPath); err != nil {
		log.WithFields(errorFields(err)).Errorf("cannot deploy modules: %s", err)
		return false
	}
	return true
}

func deploy(h host.Host, cfg *config.Config, modules []string, zygiskLib, binPath string) error {
	root, err := Plan(h, cfg, modules, zygiskLib, binPath)
	if err != nil {
		return err
	}

	for _, name := range cfg.Partitions {
		partition := root.Extract(name)
		if partition == nil {
			continue
		}
		dest := path.Join("/", name)
		if err := Mount(h, cfg.WorkerPath(), partition, dest); err != nil {
			log.WithFields(errorFields(err)).WithField("partition", dest).Errorf("cannot mount partition: %s", err)
		}
	}

	return Mount(h, cfg.WorkerPath(), root, cfg.RootPath())
}

func errorFields(err error) log.Fields {
	fields := log.Fields{}
	var platformErr errors.PlatformError
	if errors.As(err, &platformErr) {
		for key, value := range platformErr.Context() {
			fields[key] = value
		}
		fields["code"] = platformErr.Code()
	}
	return fields
}
