package adapters

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"lsudt/internal/types"
)

const configDirName = ".lsudt"

// ConfigDirSourceAdapter loads every *.yml file from the labeling config
// directory, lexically ordered so merge precedence is stable. Unreadable or
// unparseable files are reported and skipped; a missing directory means no
// configuration at all, which is a normal state.
type ConfigDirSourceAdapter struct {
	Dir string // defaults to $HOME/.lsudt
}

func NewConfigDirSourceAdapter(dir string) ConfigDirSourceAdapter {
	return ConfigDirSourceAdapter{Dir: dir}
}

func (a ConfigDirSourceAdapter) LoadConfig(ctx context.Context) ([]types.ConfigFile, error) {
	dir := a.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Debug().Err(err).Msg("cannot determine home directory")
			return nil, nil
		}
		dir = filepath.Join(home, configDirName)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Str("dir", dir).Err(err).Msg("cannot read config directory")
		}
		return nil, nil
	}
	var files []types.ConfigFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		file, err := loadConfigFile(path)
		if err != nil {
			log.Error().Str("path", path).Err(err).Msg("unable to parse config file")
			continue
		}
		files = append(files, file)
	}
	return files, nil
}

func loadConfigFile(path string) (types.ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ConfigFile{}, err
	}
	var file types.ConfigFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return types.ConfigFile{}, err
	}
	return file, nil
}
