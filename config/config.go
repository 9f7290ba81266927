package config

import (
	"os"
	"path"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
)

var appname = "tracknab"

// Config is the application configuration, including the per-site sections
// that hold credentials and overrides for each tracker.
type Config interface {
	GetSiteOption(name, key string) (string, bool, error)
	GetSite(key string) (map[string]string, error)
	GetInt(key string) int
	GetString(key string) string
	GetBool(key string) bool
	Get(key string) interface{}
	SetSiteOption(section, key, value string) error
	Set(key string, value interface{})
}

func GetMinLogLevel(c Config) log.Level {
	if c.GetBool("verbose") {
		return log.DebugLevel
	}
	return log.InfoLevel
}

// GetCachePath gives a per-application cache directory, creating it if needed.
func GetCachePath(subdir string) string {
	home, _ := homedir.Dir()
	cacheDir := path.Join(home, "."+appname, "cache", subdir)
	_ = os.MkdirAll(cacheDir, os.ModePerm)
	return cacheDir
}

func SetDefaults(cfg Config) {
	cfg.Set("definition.dirs", GetDefinitionDirs())
}

// GetDefinitionDirs lists the directories that may hold index definitions:
// ./definitions, ~/.tracknab/definitions and $CONFIG_DIR/definitions.
func GetDefinitionDirs() []string {
	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, filepath.Join(cwd, "definitions"))
	}
	home, _ := homedir.Dir()
	dirs = append(dirs, filepath.FromSlash(path.Join(home, "."+appname, "definitions")))
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		dirs = append(dirs, filepath.Join(filepath.FromSlash(configDir), "definitions"))
	}
	return dirs
}
