package configs

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	kerrors "github.com/tmacey/keystash/internal/errors"
)

//go:embed default_config.toml
var defaultConfig []byte

// Stage names recognised in the plugins table and as per-plugin subtrees.
var stageNames = []string{"auth", "archive", "publish"}

// Config is the immutable-per-run configuration tree. Template parameters
// and the one-table-or-many normalization are applied once at load; nothing
// downstream branches on which shape the user wrote.
type Config struct {
	// ArchiveName is the workspace name, template-expanded.
	ArchiveName string

	// RemoteDir is the default publish destination directory,
	// template-expanded.
	RemoteDir string

	plugins map[string]any
	subs    map[string]map[string][]map[string]any
}

// EnsureConfigFile installs the bundled default config on first run.
// It returns the config path and whether a fresh default was written.
func EnsureConfigFile() (string, bool, error) {
	path := ConfigFilePath()
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !os.IsNotExist(err) {
		return path, false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return path, false, err
	}
	if err := os.WriteFile(path, defaultConfig, 0600); err != nil {
		return path, false, err
	}
	return path, true, nil
}

// Load reads and parses the config file at path.
func Load(path string, params Params) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data, params)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML config data and normalizes it for the pipeline.
func Parse(data []byte, params Params) (*Config, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, kerrors.Configf("", "%v", err)
	}

	cfg := &Config{
		ArchiveName: "{host}",
		RemoteDir:   "backup/keystash",
		plugins:     map[string]any{},
		subs:        map[string]map[string][]map[string]any{},
	}

	if v, ok := raw["archive_name"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, kerrors.Configf("archive_name",
				"expected 'archive_name' to be a string, not %s", tomlTypeName(v))
		}
		cfg.ArchiveName = s
	}
	if v, ok := raw["remote_dir"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, kerrors.Configf("remote_dir",
				"expected 'remote_dir' to be a string, not %s", tomlTypeName(v))
		}
		cfg.RemoteDir = s
	}
	cfg.ArchiveName = params.Expand(cfg.ArchiveName)
	cfg.RemoteDir = params.Expand(cfg.RemoteDir)

	if v, ok := raw["plugins"]; ok {
		table, ok := v.(map[string]any)
		if !ok {
			return nil, kerrors.Configf("plugins",
				"expected 'plugins' to be a table, not %s", tomlTypeName(v))
		}
		cfg.plugins = table
	}

	for _, stage := range stageNames {
		v, ok := raw[stage]
		if !ok {
			continue
		}
		table, ok := v.(map[string]any)
		if !ok {
			return nil, kerrors.Configf(stage,
				"expected '%s' to be a table of plugin settings, not %s", stage, tomlTypeName(v))
		}

		cfg.subs[stage] = map[string][]map[string]any{}
		for name, sub := range table {
			normalized, err := normalizeSubconfigs(fmt.Sprintf("%s.%s", stage, name), sub)
			if err != nil {
				return nil, err
			}
			for i := range normalized {
				normalized[i] = expandTable(normalized[i], params)
				if stage == "publish" {
					if _, ok := normalized[i]["remote_dir"]; !ok {
						normalized[i]["remote_dir"] = cfg.RemoteDir
					}
				}
			}
			cfg.subs[stage][name] = normalized
		}
	}

	return cfg, nil
}

// PluginSelection returns the raw value of plugins.<stage>, if present.
// Type validation is the selector's concern so that wrong-type values can
// be reported with the user's plugin list intact.
func (c *Config) PluginSelection(stage string) (any, bool) {
	v, ok := c.plugins[stage]
	return v, ok
}

// Subconfigs returns the canonical list of per-invocation parameter blocks
// for a plugin, or nil when the user configured none.
func (c *Config) Subconfigs(stage, name string) []map[string]any {
	return c.subs[stage][name]
}

// normalizeSubconfigs converts a plugin's parameter block, which may be a
// single table or an array of tables, into the canonical list form.
func normalizeSubconfigs(key string, v any) ([]map[string]any, error) {
	switch sub := v.(type) {
	case map[string]any:
		return []map[string]any{sub}, nil
	case []map[string]any:
		return sub, nil
	case []any:
		out := make([]map[string]any, 0, len(sub))
		for _, elem := range sub {
			table, ok := elem.(map[string]any)
			if !ok {
				return nil, kerrors.Configf(key,
					"expected '%s' to contain tables, not %s", key, tomlTypeName(elem))
			}
			out = append(out, table)
		}
		return out, nil
	default:
		return nil, kerrors.Configf(key,
			"expected '%s' to be a table or array of tables, not %s", key, tomlTypeName(v))
	}
}

// expandTable applies template parameters to every string value in a
// subconfig, including strings inside arrays.
func expandTable(table map[string]any, params Params) map[string]any {
	out := make(map[string]any, len(table))
	for k, v := range table {
		out[k] = expandValue(v, params)
	}
	return out
}

func expandValue(v any, params Params) any {
	switch val := v.(type) {
	case string:
		return params.Expand(val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = expandValue(elem, params)
		}
		return out
	case map[string]any:
		return expandTable(val, params)
	default:
		return v
	}
}

// tomlTypeName names a decoded TOML value the way the config file spells it.
func tomlTypeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case int64, int:
		return "integer"
	case float64:
		return "float"
	case []any, []map[string]any:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
