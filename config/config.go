// Configuration to merge modules and mount result in system
package config

import (
	"os"
	"path"
	"strconv"

	"github.com/jmgilman/go/errors"
	"gopkg.in/yaml.v3"
)

// Binary injected in bin path, Target is relative to Tmp when not Symlink
type Binary struct {
	Name    string `yaml:"name"`
	Target  string `yaml:"target"`
	Symlink bool   `yaml:"symlink,omitempty"`
}

// Config to deploy modules, all paths resolved once in Load or Default
type Config struct {
	Tmp           string   `yaml:"tmp"`            // Temporary root, host of modules and worker folder
	ModuleDir     string   `yaml:"module_dir"`     // Folder relative to Tmp with modules mounted
	WorkerDir     string   `yaml:"worker_dir"`     // Folder relative to Tmp to make staging directories
	SkipMarker    string   `yaml:"skip_marker"`    // File in module root to skip module
	Subtree       string   `yaml:"subtree"`        // Required folder in module root to merge
	ReplaceMarker string   `yaml:"replace_marker"` // File in directory to replace real directory content
	Partitions    []string `yaml:"partitions"`     // Children of Subtree mounted in "/<name>"
	Binaries      []Binary `yaml:"binaries"`       // Binaries injected in BinPath
	Modules       []string `yaml:"modules"`        // Modules to merge, last module is highest priority
	ZygiskLib     string   `yaml:"zygisk_lib"`     // Library file name to redirect, "0" or blank to disable
	BinPath       string   `yaml:"bin_path"`       // Folder to inject binaries, blank to disable
	Is64Bit       bool     `yaml:"is_64bit"`       // Current process is 64 bits
}

// Return default config with /debug_ramdisk as temporary root
func Default() *Config {
	return &Config{
		Tmp:           "/debug_ramdisk",
		ModuleDir:     ".magisk/modules",
		WorkerDir:     ".magisk/worker",
		SkipMarker:    "skip_mount",
		Subtree:       "system",
		ReplaceMarker: ".replace",
		Partitions:    []string{"product", "vendor", "system_ext"},
		Binaries: []Binary{
			{Name: "magisk", Target: "magisk"},
			{Name: "magiskpolicy", Target: "magiskpolicy"},
			{Name: "su", Target: "./magisk", Symlink: true},
			{Name: "resetprop", Target: "./magisk", Symlink: true},
			{Name: "supolicy", Target: "./magiskpolicy", Symlink: true},
		},
		ZygiskLib: "0",
		Is64Bit:   strconv.IntSize == 64,
	}
}

// Load yaml config file, keys not in file keep Default value
func Load(file string) (*Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithContext(errors.Wrap(err, errors.CodeNotFound, "config file not found"), "path", file)
		}
		return nil, errors.WithContext(errors.Wrap(err, errors.CodeInvalidConfig, "cannot read config"), "path", file)
	}
	return Parse(data)
}

// Parse yaml config, keys not in data keep Default value
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "cannot decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate check required fields
func (cfg *Config) Validate() error {
	switch {
	case cfg.Tmp == "" || !path.IsAbs(cfg.Tmp):
		return errors.WithContext(errors.New(errors.CodeInvalidConfig, "tmp must be absolute path"), "tmp", cfg.Tmp)
	case cfg.ModuleDir == "":
		return errors.New(errors.CodeInvalidConfig, "module_dir is required")
	case cfg.WorkerDir == "":
		return errors.New(errors.CodeInvalidConfig, "worker_dir is required")
	case cfg.Subtree == "":
		return errors.New(errors.CodeInvalidConfig, "subtree is required")
	case cfg.ReplaceMarker == "":
		return errors.New(errors.CodeInvalidConfig, "replace_marker is required")
	}
	for _, bin := range cfg.Binaries {
		if bin.Name == "" || bin.Target == "" {
			return errors.WithContext(errors.New(errors.CodeInvalidConfig, "binary requires name and target"), "binary", bin.Name)
		}
	}
	return nil
}

// Modules root folder, <Tmp>/<ModuleDir>
func (cfg *Config) ModulesPath() string { return path.Join(cfg.Tmp, cfg.ModuleDir) }

// Staging root folder, <Tmp>/<WorkerDir>
func (cfg *Config) WorkerPath() string { return path.Join(cfg.Tmp, cfg.WorkerDir) }

// Root of merge, "/<Subtree>"
func (cfg *Config) RootPath() string { return path.Join("/", cfg.Subtree) }

// Library redirection enabled
func (cfg *Config) ZygiskEnabled() bool { return LibraryEnabled(cfg.ZygiskLib) }

// Library name is not blank or disabled with "0"
func LibraryEnabled(name string) bool { return name != "" && name != "0" }
