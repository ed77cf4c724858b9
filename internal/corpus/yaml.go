// yaml.go decodes a test definition file written in the human-authored YAML
// format. yaml.v3 mapping nodes keep their member order, so definitions are
// pulled from the document node pairwise.
package corpus

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

func decodeYAMLDefinitions(data []byte) ([]definition, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil // empty document
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, errors.New("top-level value is not a mapping")
	}

	defs := make([]definition, 0, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		keyNode, valNode := doc.Content[i], doc.Content[i+1]

		var rt rawTest
		if err := valNode.Decode(&rt); err != nil {
			return nil, fmt.Errorf("test %q: %w", keyNode.Value, err)
		}
		defs = append(defs, definition{name: keyNode.Value, raw: rt})
	}
	return defs, nil
}

func (l *literal) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected scalar gas value, got %s", node.Tag)
	}
	l.set, l.value = true, node.Value
	return nil
}
