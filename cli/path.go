package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/quasi/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

var defaultDirMode os.FileMode = 0o700

var (
	configDir = pkg.ConfigDir
	cacheDir  = pkg.CacheDir
)

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return pkg.ErrCreateDir.Wrapf("%s", dir).Wrap(err)
		}
	}

	return nil
}
