package skill

import (
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ParseYAML decodes YAML text into a Value tree. Mapping key order follows
// the document, which matters for re-serialization but not for hashing.
func ParseYAML(data []byte) (*Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "invalid YAML")
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Null(), nil
	}
	return FromNode(doc.Content[0])
}

// FromNode converts a decoded yaml.Node into a Value.
func FromNode(node *yaml.Node) (*Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return FromNode(node.Content[0])
	case yaml.AliasNode:
		return FromNode(node.Alias)
	case yaml.MappingNode:
		out := NewMapping()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, errors.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			child, err := FromNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			out.Set(keyNode.Value, child)
		}
		return out, nil
	case yaml.SequenceNode:
		out := NewSequence()
		for _, item := range node.Content {
			child, err := FromNode(item)
			if err != nil {
				return nil, err
			}
			out.Append(child)
		}
		return out, nil
	case yaml.ScalarNode:
		return scalarFromNode(node)
	default:
		return nil, errors.Errorf("unsupported YAML node kind %d", node.Kind)
	}
}

func scalarFromNode(node *yaml.Node) (*Value, error) {
	switch node.Tag {
	case "!!null":
		return Null(), nil
	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: invalid boolean", node.Line)
		}
		return Bool(b), nil
	case "!!int":
		i, err := strconv.ParseInt(node.Value, 0, 64)
		if err != nil {
			// Out-of-range integers degrade to float rather than failing.
			f, ferr := strconv.ParseFloat(node.Value, 64)
			if ferr != nil {
				return nil, errors.Wrapf(err, "line %d: invalid integer", node.Line)
			}
			return Float(f), nil
		}
		return Int(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: invalid float", node.Line)
		}
		return Float(f), nil
	default:
		// Timestamps and any other scalar tags are kept as strings.
		return String(node.Value), nil
	}
}

// ToNode converts a Value back to a yaml.Node, preserving mapping key
// insertion order so rewritten files stay close to their source layout.
func (v *Value) ToNode() *yaml.Node {
	switch v.kind {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.boolean)}
	case KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.integer, 10)}
	case KindFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v.real, 'g', -1, 64)}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.str}
	case KindSequence:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.seq {
			node.Content = append(node.Content, item.ToNode())
		}
		return node
	case KindMapping:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range v.keys {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				v.mapping[key].ToNode(),
			)
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// MarshalYAML renders the value tree as YAML text.
func (v *Value) MarshalYAML() ([]byte, error) {
	data, err := yaml.Marshal(v.ToNode())
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal value")
	}
	return data, nil
}
