package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JaimeStill/hackid/internal/validations"
)

// readRequests decodes a claim file. A file holds one request, a list of
// requests, or a mapping with a projects list. JSON parses as YAML.
func readRequests(path string) ([]validations.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("parse %s: empty document", path)
	}
	root := doc.Content[0]

	var reqs []validations.Request
	switch {
	case root.Kind == yaml.SequenceNode:
		err = root.Decode(&reqs)
	case hasKey(root, "projects"):
		var batch validations.BatchRequest
		err = root.Decode(&batch)
		reqs = batch.Projects
	default:
		var req validations.Request
		err = root.Decode(&req)
		reqs = []validations.Request{req}
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	for i, r := range reqs {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%s: project %d: %w", path, i, err)
		}
	}
	return reqs, nil
}

func hasKey(n *yaml.Node, key string) bool {
	if n.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
