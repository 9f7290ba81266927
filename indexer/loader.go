package indexer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/tracknab/tracknab/config"
)

// DefinitionLoader finds and parses index definitions by name.
type DefinitionLoader interface {
	// List gives the names of the definitions matching the selector.
	List(selector *Selector) ([]string, error)
	// Load parses the definition behind a name.
	Load(key string) (*Definition, error)
}

// FileIndexLoader reads yaml definitions from a set of directories.
type FileIndexLoader struct {
	Directories []string
}

func NewFileIndexLoader(dirs ...string) *FileIndexLoader {
	return &FileIndexLoader{Directories: dirs}
}

func defaultFsLoader() DefinitionLoader {
	return &FileIndexLoader{Directories: config.GetDefinitionDirs()}
}

// GetIndexDefinitionLoader is the loader the application uses by default.
func GetIndexDefinitionLoader() DefinitionLoader {
	return &MultipleDefinitionLoader{defaultFsLoader()}
}

func (fs *FileIndexLoader) walkDirectories() map[string]string {
	defs := map[string]string{}
	for _, dirPath := range fs.Directories {
		dir, err := os.Open(dirPath)
		if err != nil {
			continue
		}
		files, err := dir.Readdirnames(-1)
		_ = dir.Close()
		if err != nil {
			continue
		}
		for _, basename := range files {
			if !strings.HasSuffix(basename, ".yml") && !strings.HasSuffix(basename, ".yaml") {
				continue
			}
			name := strings.TrimSuffix(strings.TrimSuffix(basename, ".yml"), ".yaml")
			defs[name] = filepath.Join(dirPath, basename)
		}
	}
	return defs
}

func (fs *FileIndexLoader) List(selector *Selector) ([]string, error) {
	var results []string
	for name := range fs.walkDirectories() {
		if selector != nil && !selector.Matches(name) {
			continue
		}
		results = append(results, name)
	}
	sort.Strings(results)
	return results, nil
}

func (fs *FileIndexLoader) String() string {
	return "dirs{" + strings.Join(fs.Directories, ",") + "}"
}

func (fs *FileIndexLoader) Load(key string) (*Definition, error) {
	fileName, ok := fs.walkDirectories()[key]
	if !ok {
		return nil, ErrUnknownIndexer
	}
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	def, err := ParseDefinitionFile(f)
	if err != nil {
		return nil, err
	}
	def.stats.Source = "file:" + fileName
	return def, nil
}

// MultipleDefinitionLoader chains several loaders; Load prefers the newest
// definition when more than one loader knows the name.
type MultipleDefinitionLoader []DefinitionLoader

func (ml MultipleDefinitionLoader) List(selector *Selector) ([]string, error) {
	allResults := map[string]struct{}{}
	for _, loader := range ml {
		names, err := loader.List(selector)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			allResults[name] = struct{}{}
		}
	}
	var results []string
	for name := range allResults {
		results = append(results, name)
	}
	sort.Strings(results)
	return results, nil
}

func (ml MultipleDefinitionLoader) Load(key string) (*Definition, error) {
	var def *Definition
	for _, loader := range ml {
		if loader == nil {
			continue
		}
		loaded, err := loader.Load(key)
		if err != nil {
			log.Debugf("Couldn't load index %q using %s: %s", key, loader, err)
			continue
		}
		if def == nil || loaded.Stats().ModTime.After(def.Stats().ModTime) {
			def = loaded
		}
	}
	if def == nil {
		return nil, ErrUnknownIndexer
	}
	return def, nil
}
