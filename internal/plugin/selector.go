package plugin

import (
	"fmt"
	"sort"
	"strings"

	kerrors "github.com/tmacey/keystash/internal/errors"
)

// Source is the slice of configuration the selector reads.
type Source interface {
	// PluginSelection returns the raw value of plugins.<stage>, if present.
	PluginSelection(stage string) (any, bool)
}

// Select resolves the configured plugin name list for a stage against the
// registry. When the user configured nothing for the stage, defaults are
// substituted instead (ordered by descending priority, stable on
// registration order). The returned descriptors keep the user's listed
// order; priority never reorders an explicit selection.
func Select(cfg Source, stage Stage, defaults []string) ([]Descriptor, error) {
	if !KnownStage(stage) {
		return nil, kerrors.Configf("plugins."+string(stage),
			"unknown stage %q: expected one of auth, archive, publish", stage)
	}

	installed := Discover(stage)

	selection, err := selectionNames(cfg, stage)
	if err != nil {
		return nil, err
	}
	if len(selection) == 0 {
		selection = orderDefaults(stage, defaults)
	}

	var unknown []string
	for _, name := range selection {
		if _, ok := installed[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		noun := "plugin is"
		if len(unknown) > 1 {
			noun = "plugins are"
		}
		return nil, kerrors.Configf("plugins."+string(stage),
			"the following '%s' %s not installed: %s", stage, noun, strings.Join(unknown, ", "))
	}

	out := make([]Descriptor, len(selection))
	for i, name := range selection {
		out[i] = installed[name]
	}
	return out, nil
}

// selectionNames extracts and type-checks the plugins.<stage> value.
func selectionNames(cfg Source, stage Stage) ([]string, error) {
	v, ok := cfg.PluginSelection(string(stage))
	if !ok || v == nil {
		return nil, nil
	}

	key := "plugins." + string(stage)
	var elems []any
	switch list := v.(type) {
	case []any:
		elems = list
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out, nil
	default:
		return nil, kerrors.Configf(key,
			"expected '%s' to be a list, not %s", key, valueTypeName(v))
	}

	out := make([]string, 0, len(elems))
	for _, elem := range elems {
		name, ok := elem.(string)
		if !ok {
			return nil, kerrors.Configf(key,
				"expected '%s' to contain plugin names, not %s", key, valueTypeName(elem))
		}
		out = append(out, name)
	}
	return out, nil
}

// orderDefaults sorts default plugin names by descending registry priority,
// stable on the given order. Only one default ships today (auth getpass),
// so the sort is latent until a multi-default stage exists.
func orderDefaults(stage Stage, defaults []string) []string {
	if len(defaults) < 2 {
		return defaults
	}
	installed := Discover(stage)
	out := make([]string, len(defaults))
	copy(out, defaults)
	sort.SliceStable(out, func(i, j int) bool {
		return installed[out[i]].Priority > installed[out[j]].Priority
	})
	return out
}

// valueTypeName names a decoded config value the way the config file
// spells its type.
func valueTypeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case int64, int:
		return "integer"
	case float64:
		return "float"
	case []any, []string:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
