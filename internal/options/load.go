package options

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/mage-console/internal/envfile"
	"github.com/conn-castle/mage-console/internal/messages"
)

// LoadFile reads install arguments from a .toml file or a .env style file.
// Any extension other than .toml is parsed as .env content.
func LoadFile(path string) (Arguments, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.OptionsReadArgsFileFmt, path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return parseTOML(data, path)
	}
	return parseEnv(data, path)
}

// parseEnv rejects a key set twice, including DB_HOST next to db_host.
func parseEnv(data []byte, source string) (Arguments, error) {
	entries, err := envfile.Read(string(data))
	if err != nil {
		return nil, fmt.Errorf(messages.OptionsInvalidArgsFileFmt, source, err)
	}
	args := make(Arguments, len(entries))
	seen := make(map[string]int, len(entries))
	for _, e := range entries {
		key := NormalizeKey(e.Key)
		if first, ok := seen[key]; ok {
			return nil, fmt.Errorf(messages.OptionsArgsFileDuplicateFmt, source, e.Line, key, first)
		}
		seen[key] = e.Line
		args.Set(key, e.Value)
	}
	return args, nil
}

func parseTOML(data []byte, source string) (Arguments, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf(messages.OptionsInvalidArgsFileFmt, source, err)
	}
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	args := make(Arguments, len(raw))
	for _, key := range keys {
		switch value := raw[key].(type) {
		case string:
			args.Set(key, value)
		case bool:
			if value {
				args.Set(key, "yes")
			} else {
				args.Set(key, "no")
			}
		case int64:
			args.Set(key, strconv.FormatInt(value, 10))
		case float64:
			args.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
		default:
			return nil, fmt.Errorf(messages.OptionsArgsFileNestedFmt, source, key)
		}
	}
	return args, nil
}

// EnvTemplate renders every catalog option as a commented .env template,
// filled with the option defaults.
func EnvTemplate() string {
	entries := make([]envfile.Entry, 0, len(catalog))
	for _, opt := range catalog {
		comment := opt.Description
		if opt.Required {
			comment += messages.OptionsTemplateRequiredSuffix
		}
		entries = append(entries, envfile.Entry{Key: opt.Key, Value: opt.Default, Comment: comment})
	}
	return envfile.Render(entries)
}
