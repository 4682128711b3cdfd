package loader

import (
	"bytes"
	"errors"
	"io"

	"github.com/aretw0/fixtures/pkg/domain"
	"gopkg.in/yaml.v3"
)

// YAML loads a hierarchical YAML document. An empty document yields nil.
func YAML(path string) (any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	v, err := DecodeYAML(data)
	if err != nil {
		return nil, &domain.DataFormatError{Path: path, Format: domain.FormatYAML, Err: err}
	}
	return v, nil
}

// DecodeYAML parses the first YAML document in data.
// Timestamps keep their source text, so a date stays "2024-01-02".
func DecodeYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	retagTimestamps(&doc)

	var v any
	if err := doc.Decode(&v); err != nil {
		return nil, err
	}
	return Normalize(v), nil
}

func retagTimestamps(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!timestamp" {
		n.Tag = "!!str"
	}
	for _, c := range n.Content {
		retagTimestamps(c)
	}
}
