package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/onefile/pkg/actions"
	"github.com/arthur-debert/onefile/pkg/errors"
	"github.com/arthur-debert/onefile/pkg/logging"
	"github.com/arthur-debert/onefile/pkg/matcher"
	"github.com/arthur-debert/onefile/pkg/types"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

var log = logging.GetLogger("config")

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("not implemented")
}

// ProjectConfigNames are probed under the project root, in order.
// TOML is the native format; the YAML spellings exist for projects that
// keep all their tooling config in YAML.
var ProjectConfigNames = []string{".onefile.toml", "onefile.toml", ".onefile.yaml", "onefile.yaml"}

// EnvPrefix namespaces the environment overlay. ONEFILE_MAX_LINES=40
// sets global.max_lines; the overlay touches global settings only.
const EnvPrefix = "ONEFILE_"

// LoadOptions configures Load.
type LoadOptions struct {
	// Root is the project root; empty means the current directory
	Root string

	// ConfigPath names the project config explicitly (--config); when
	// empty the ProjectConfigNames are probed
	ConfigPath string

	// PresetPaths are preset documents from the command line, loaded
	// after the ones the project config lists
	PresetPaths []string

	// Overlay holds programmatic key overrides (koanf dotted keys, e.g.
	// "output.path") applied over the file and environment layers. The
	// commands use it for flags that configure collaborators rather
	// than per-file settings.
	Overlay map[string]interface{}
}

// Load builds the GlobalConfig: embedded defaults, then the project
// config, then ONEFILE_* environment values, then preset documents in
// order. All validation happens here; a GlobalConfig that Load returns
// is safe to share read-only across workers.
func Load(opts LoadOptions) (*GlobalConfig, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot resolve project root %s", root)
	}

	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot load embedded defaults")
	}

	configPath, err := findProjectConfig(absRoot, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := checkDocumentSize(configPath); err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(configPath), parserFor(configPath)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", configPath)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return "global." + strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot load environment overrides")
	}

	if len(opts.Overlay) > 0 {
		if err := k.Load(confmap.Provider(opts.Overlay, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot apply configuration overlay")
		}
	}

	cfg := &GlobalConfig{
		Root:         absRoot,
		PerExtension: make(map[string]types.Overrides),
	}

	settings := types.DefaultSettings()
	if err := unmarshalSection(k, "global", &settings); err != nil {
		return nil, err
	}
	if err := validateGlobalSettings(settings); err != nil {
		return nil, err
	}
	cfg.DefaultSettings = settings

	if err := unmarshalSection(k, "scan", &cfg.Scan); err != nil {
		return nil, err
	}
	if err := unmarshalSection(k, "output", &cfg.Output); err != nil {
		return nil, err
	}

	if raw := k.Get("extensions"); raw != nil {
		if err := collectExtensions(raw, cfg.PerExtension); err != nil {
			return nil, err
		}
	}

	presetPaths, err := resolvePresetPaths(absRoot, k.Strings("presets"), opts.PresetPaths)
	if err != nil {
		return nil, err
	}
	for _, path := range presetPaths {
		if err := loadPresetDocument(cfg, path); err != nil {
			return nil, err
		}
	}
	cfg.PresetPaths = presetPaths

	if err := finalizeGroups(cfg); err != nil {
		return nil, err
	}

	log.Debug().
		Str("root", absRoot).
		Int("groups", len(cfg.Groups)).
		Int("extensions", len(cfg.PerExtension)).
		Int("presets", len(cfg.PresetPaths)).
		Msg("configuration loaded")
	return cfg, nil
}

// findProjectConfig returns the project config path, or "" when the
// project has none. An explicit path must exist; probed names may not.
func findProjectConfig(root, explicit string) (string, error) {
	if explicit != "" {
		path := explicit
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		if _, err := os.Stat(path); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", explicit)
		}
		return path, nil
	}
	for _, name := range ProjectConfigNames {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// parserFor picks the koanf parser by file extension.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

func unmarshalSection(k *koanf.Koanf, path string, target interface{}) error {
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           target,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf(path, target, conf); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "cannot decode configuration section %q", path)
	}
	return nil
}

// validateGlobalSettings checks the merged defaults record. Settings
// reaching this point came from the embedded defaults, the project
// [global] table, or the environment.
func validateGlobalSettings(s types.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	for _, name := range s.Actions {
		if !actions.IsBuiltinAction(name) {
			return errors.Newf(errors.ErrConfigValid,
				"unknown action %q in global settings (built-in actions: %s)",
				name, strings.Join(actions.BuiltinActions(), ", "))
		}
	}
	if s.CustomProcessor != "" {
		if err := validateProcessorName(s.CustomProcessor); err != nil {
			return err
		}
	}
	return nil
}

// collectExtensions reads the [extensions] tables. TOML accepts both
// bare and quoted spellings; a quoted ".py" key arrives split on the
// path delimiter as an empty segment plus the bare name.
func collectExtensions(raw interface{}, dest map[string]types.Overrides) error {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return errors.Newf(errors.ErrConfigValid, "extensions must be a table of tables, got %T", raw)
	}
	for key, val := range m {
		if key == "" {
			nested, ok := val.(map[string]interface{})
			if !ok {
				return errors.Newf(errors.ErrConfigValid, "extensions table has an empty key")
			}
			for ext, sub := range nested {
				if err := addExtension(dest, ext, sub); err != nil {
					return err
				}
			}
			continue
		}
		if err := addExtension(dest, key, val); err != nil {
			return err
		}
	}
	return nil
}

func addExtension(dest map[string]types.Overrides, ext string, val interface{}) error {
	m, ok := val.(map[string]interface{})
	if !ok {
		return errors.Newf(errors.ErrConfigValid, "extensions.%s must be a table, got %T", ext, val)
	}
	var o types.Overrides
	if err := applyOverrideMap(&o, m); err != nil {
		return errors.Wrapf(err, errors.GetErrorCode(err), "extensions.%s", ext)
	}
	dest[matcher.NormalizeExtension(ext)] = o
	return nil
}

// resolvePresetPaths orders and resolves the preset documents to load:
// the project config's presets list (contained under the root, it is
// configuration data) followed by command-line paths (resolved as
// given, the user named them directly).
func resolvePresetPaths(root string, fromConfig, fromCLI []string) ([]string, error) {
	out := make([]string, 0, len(fromConfig)+len(fromCLI))
	for _, p := range fromConfig {
		abs, err := resolveUnderRoot(root, p)
		if err != nil {
			return nil, err
		}
		out = append(out, abs)
	}
	for _, p := range fromCLI {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot resolve preset path %s", p)
		}
		out = append(out, abs)
	}
	return out, nil
}

func loadPresetDocument(cfg *GlobalConfig, path string) error {
	if err := checkDocumentSize(path); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot read preset document %s", path)
	}
	doc, err := parsePresetDocument(data, path)
	if err != nil {
		return err
	}

	if doc.Globals != nil {
		changed := doc.Globals.Apply(&cfg.DefaultSettings)
		log.Debug().Str("source", path).Strs("fields", changed).Msg("preset globals applied")
	}
	for ext, o := range doc.Extensions {
		// Later documents replace the whole per-extension record
		cfg.PerExtension[ext] = o
	}
	for _, group := range doc.Groups {
		cfg.Groups = upsertGroup(cfg.Groups, group)
	}
	return nil
}

// upsertGroup appends a new group or replaces an existing one wholesale,
// keeping the original load position for priority tie-breaks.
func upsertGroup(groups []RuleGroup, g RuleGroup) []RuleGroup {
	for i := range groups {
		if groups[i].Name == g.Name {
			g.loadIndex = groups[i].loadIndex
			groups[i] = g
			return groups
		}
	}
	g.loadIndex = len(groups)
	return append(groups, g)
}

// finalizeGroups runs the one-time activation check, compiles every
// rule, and fixes the resolution order.
func finalizeGroups(cfg *GlobalConfig) error {
	for i := range cfg.Groups {
		g := &cfg.Groups[i]
		g.Active = true
		if g.RequiresPath != "" {
			if _, err := os.Stat(filepath.Join(cfg.Root, g.RequiresPath)); err != nil {
				g.Active = false
				log.Debug().Str("group", g.Name).Str("requires_path", g.RequiresPath).
					Msg("group inactive, required path missing")
			}
		}
		for j := range g.Rules {
			if err := g.Rules[j].compile(g.BasePath); err != nil {
				return errors.Wrapf(err, errors.GetErrorCode(err),
					"group %q, rule %q", g.Name, g.Rules[j].Name)
			}
		}
	}
	sort.Slice(cfg.Groups, func(i, j int) bool {
		if cfg.Groups[i].Priority != cfg.Groups[j].Priority {
			return cfg.Groups[i].Priority > cfg.Groups[j].Priority
		}
		return cfg.Groups[i].loadIndex < cfg.Groups[j].loadIndex
	})
	return nil
}
