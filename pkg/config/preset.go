package config

import (
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/onefile/pkg/errors"
	"github.com/arthur-debert/onefile/pkg/matcher"
	"github.com/arthur-debert/onefile/pkg/types"
)

// presetDocument is the parsed form of one YAML preset file. Groups
// keep document order; the document order is the tie-break when two
// groups share a priority.
type presetDocument struct {
	Globals    *types.Overrides
	Extensions map[string]types.Overrides
	Groups     []RuleGroup
}

// Reserved top-level keys in preset documents. Every other top-level
// key names a rule group.
const (
	presetGlobalsKey    = "globals"
	presetExtensionsKey = "extensions"
)

// parsePresetDocument parses one preset document. The parser walks the
// YAML node tree directly instead of unmarshalling into a map so that
// groups and rules keep the order the author wrote them in.
func parsePresetDocument(data []byte, source string) (*presetDocument, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse preset document %s", source)
	}
	doc := &presetDocument{Extensions: make(map[string]types.Overrides)}
	if root.Kind == 0 || len(root.Content) == 0 {
		// empty document
		return doc, nil
	}
	top := root.Content[0]
	if top.Kind == yaml.ScalarNode && top.Tag == "!!null" {
		return doc, nil
	}
	if top.Kind != yaml.MappingNode {
		return nil, errors.Newf(errors.ErrConfigParse,
			"preset document %s: top level must be a mapping", source)
	}

	for i := 0; i < len(top.Content)-1; i += 2 {
		keyNode, valNode := top.Content[i], top.Content[i+1]
		switch keyNode.Value {
		case presetGlobalsKey:
			o := &types.Overrides{}
			if err := applyOverrideNodes(o, valNode, source, "globals"); err != nil {
				return nil, err
			}
			doc.Globals = o
		case presetExtensionsKey:
			if err := parsePresetExtensions(doc.Extensions, valNode, source); err != nil {
				return nil, err
			}
		default:
			group, err := parseRuleGroup(keyNode.Value, valNode, source)
			if err != nil {
				return nil, err
			}
			doc.Groups = append(doc.Groups, *group)
		}
	}
	return doc, nil
}

func parsePresetExtensions(dest map[string]types.Overrides, node *yaml.Node, source string) error {
	if node.Kind != yaml.MappingNode {
		return errors.Newf(errors.ErrConfigValid,
			"extensions must be a mapping (in %s)", source)
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		ext := matcher.NormalizeExtension(keyNode.Value)
		var o types.Overrides
		if err := applyOverrideNodes(&o, valNode, source, "extensions."+keyNode.Value); err != nil {
			return err
		}
		dest[ext] = o
	}
	return nil
}

// parseRuleGroup parses one group mapping. Unknown keys are errors so
// that a misindented rule fails loudly instead of vanishing.
func parseRuleGroup(name string, node *yaml.Node, source string) (*RuleGroup, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errors.Newf(errors.ErrConfigValid,
			"group %q must be a mapping (in %s)", name, source)
	}
	group := &RuleGroup{Name: name, Enabled: true}
	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		switch keyNode.Value {
		case "description":
			if err := valNode.Decode(&group.Description); err != nil {
				return nil, groupFieldErr(err, source, name, keyNode.Value)
			}
		case "enabled":
			if err := valNode.Decode(&group.Enabled); err != nil {
				return nil, groupFieldErr(err, source, name, keyNode.Value)
			}
		case "priority":
			if err := valNode.Decode(&group.Priority); err != nil {
				return nil, groupFieldErr(err, source, name, keyNode.Value)
			}
		case "base_path":
			if err := valNode.Decode(&group.BasePath); err != nil {
				return nil, groupFieldErr(err, source, name, keyNode.Value)
			}
			if err := validateLocalPath(group.BasePath, "base_path"); err != nil {
				return nil, presetContext(err, source, name, "")
			}
		case "requires_path":
			if err := valNode.Decode(&group.RequiresPath); err != nil {
				return nil, groupFieldErr(err, source, name, keyNode.Value)
			}
			if err := validateLocalPath(group.RequiresPath, "requires_path"); err != nil {
				return nil, presetContext(err, source, name, "")
			}
		case "rules":
			rules, err := parseRules(name, valNode, source)
			if err != nil {
				return nil, err
			}
			group.Rules = rules
		default:
			return nil, errors.Newf(errors.ErrConfigValid,
				"group %q: unknown key %q (in %s)", name, keyNode.Value, source)
		}
	}
	return group, nil
}

func parseRules(groupName string, node *yaml.Node, source string) ([]Rule, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errors.Newf(errors.ErrConfigValid,
			"group %q: rules must be a mapping of rule names (in %s)", groupName, source)
	}
	rules := make([]Rule, 0, len(node.Content)/2)
	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		rule, err := parseRule(groupName, keyNode.Value, valNode, source)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, nil
}

// parseRule parses one rule mapping. extensions, patterns and the
// optional overrides block are structural; every other key is treated
// as an inline settings override, so authors can write
// "max_lines: 100" directly next to "patterns:".
func parseRule(groupName, ruleName string, node *yaml.Node, source string) (*Rule, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errors.Newf(errors.ErrConfigValid,
			"group %q, rule %q: must be a mapping (in %s)", groupName, ruleName, source)
	}
	rule := &Rule{Name: ruleName}
	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		switch keyNode.Value {
		case "extensions":
			exts, err := decodeStringList(valNode)
			if err != nil {
				return nil, ruleFieldErr(err, source, groupName, ruleName, keyNode.Value)
			}
			rule.Extensions = make([]string, len(exts))
			for j, ext := range exts {
				rule.Extensions[j] = matcher.NormalizeExtension(ext)
			}
		case "patterns":
			patterns, err := decodeStringList(valNode)
			if err != nil {
				return nil, ruleFieldErr(err, source, groupName, ruleName, keyNode.Value)
			}
			for _, p := range patterns {
				if err := validatePatternPath(p); err != nil {
					return nil, presetContext(err, source, groupName, ruleName)
				}
			}
			rule.Patterns = patterns
		case "overrides":
			if err := applyOverrideNodes(&rule.Overrides, valNode, source,
				"group "+groupName+", rule "+ruleName); err != nil {
				return nil, err
			}
		default:
			var value interface{}
			if err := valNode.Decode(&value); err != nil {
				return nil, ruleFieldErr(err, source, groupName, ruleName, keyNode.Value)
			}
			if err := applyOverrideKey(&rule.Overrides, keyNode.Value, value); err != nil {
				return nil, presetContext(err, source, groupName, ruleName)
			}
		}
	}
	return rule, nil
}

// applyOverrideNodes funnels a mapping node through applyOverrideKey,
// the same key parser the TOML extension tables use.
func applyOverrideNodes(o *types.Overrides, node *yaml.Node, source, context string) error {
	if node.Kind != yaml.MappingNode {
		return errors.Newf(errors.ErrConfigValid,
			"%s must be a mapping (in %s)", context, source)
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		var value interface{}
		if err := valNode.Decode(&value); err != nil {
			return errors.Wrapf(err, errors.ErrConfigParse,
				"%s: cannot decode %q (in %s)", context, keyNode.Value, source)
		}
		if err := applyOverrideKey(o, keyNode.Value, value); err != nil {
			return errors.Wrapf(err, errors.GetErrorCode(err), "%s (in %s)", context, source)
		}
	}
	return nil
}

// decodeStringList accepts either a sequence of strings or a single
// scalar, which it promotes to a one-element list.
func decodeStringList(node *yaml.Node) ([]string, error) {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return nil, err
	}
	return list, nil
}

func groupFieldErr(err error, source, group, field string) error {
	return errors.Wrapf(err, errors.ErrConfigParse,
		"group %q: cannot decode %q (in %s)", group, field, source)
}

func ruleFieldErr(err error, source, group, rule, field string) error {
	return errors.Wrapf(err, errors.ErrConfigParse,
		"group %q, rule %q: cannot decode %q (in %s)", group, rule, field, source)
}

// presetContext rewraps a validation error with its document location,
// keeping the original code.
func presetContext(err error, source, group, rule string) error {
	if rule != "" {
		return errors.Wrapf(err, errors.GetErrorCode(err),
			"group %q, rule %q (in %s)", group, rule, source)
	}
	return errors.Wrapf(err, errors.GetErrorCode(err), "group %q (in %s)", group, source)
}
