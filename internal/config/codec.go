package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/conn-castle/mage-console/internal/messages"
)

// Format names a serialization of RuntimeConfig.
type Format string

const (
	// FormatPHP is the `return [...];` array the storefront reads natively.
	FormatPHP  Format = "php"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats, default first.
func Formats() []Format {
	return []Format{FormatPHP, FormatJSON, FormatYAML, FormatTOML}
}

// ParseFormat resolves a format name; empty selects FormatPHP.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(FormatPHP):
		return FormatPHP, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case "yml", string(FormatYAML):
		return FormatYAML, nil
	case string(FormatTOML):
		return FormatTOML, nil
	default:
		return "", fmt.Errorf(messages.ConfigUnsupportedFormatFmt, name)
	}
}

// FormatForPath infers the format from a file extension, defaulting to FormatPHP.
func FormatForPath(path string) Format {
	format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatPHP
	}
	return format
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	if f == "" {
		return "." + string(FormatPHP)
	}
	return "." + string(f)
}

// Encode serializes cfg in the given format.
func Encode(cfg *RuntimeConfig, format Format) ([]byte, error) {
	switch format {
	case FormatPHP, "":
		return encodePHP(cfg), nil
	case FormatJSON:
		data, err := json.MarshalIndent(cfg, "", "    ")
		if err != nil {
			return nil, fmt.Errorf(messages.ConfigEncodeFmt, format, err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var node yaml.Node
		if err := node.Encode(cfg); err != nil {
			return nil, fmt.Errorf(messages.ConfigEncodeFmt, format, err)
		}
		quoteStrings(&node)
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return nil, fmt.Errorf(messages.ConfigEncodeFmt, format, err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf(messages.ConfigEncodeFmt, format, err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		data, err := toml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf(messages.ConfigEncodeFmt, format, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf(messages.ConfigUnsupportedFormatFmt, format)
	}
}

// quoteStrings double-quotes every string value below n. The sentinels are
// replaced by raw text substitution, so the replacement always lands inside
// quotes and is read back as a string. Mapping keys stay plain.
func quoteStrings(n *yaml.Node) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 1; i < len(n.Content); i += 2 {
			quoteStrings(n.Content[i])
		}
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range n.Content {
			quoteStrings(child)
		}
	case yaml.ScalarNode:
		if n.ShortTag() == "!!str" {
			n.Style = yaml.DoubleQuotedStyle
		}
	}
}

// Decode parses data in the given format into a RuntimeConfig.
func Decode(data []byte, format Format) (*RuntimeConfig, error) {
	var cfg RuntimeConfig
	switch format {
	case FormatPHP, "":
		tree, err := parsePHP(data)
		if err != nil {
			return nil, fmt.Errorf(messages.ConfigDecodeFmt, FormatPHP, err)
		}
		// The parsed tree has the json field names, so json is the bridge.
		raw, err := json.Marshal(tree)
		if err != nil {
			return nil, fmt.Errorf(messages.ConfigDecodeFmt, FormatPHP, err)
		}
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf(messages.ConfigDecodeFmt, FormatPHP, err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf(messages.ConfigDecodeFmt, format, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf(messages.ConfigDecodeFmt, format, err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf(messages.ConfigDecodeFmt, format, err)
		}
	default:
		return nil, fmt.Errorf(messages.ConfigUnsupportedFormatFmt, format)
	}
	return &cfg, nil
}
