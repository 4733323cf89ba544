package block

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// UniqueIDKey is the attribute carrying a block's unique identifier.
const UniqueIDKey = "_unique_id"

// Block is one node of a declaration tree as produced by the content
// authoring side.
type Block struct {
	Name        string         `json:"blockName" yaml:"blockName"`
	Attrs       map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	InnerBlocks []Block        `json:"innerBlocks,omitempty" yaml:"innerBlocks,omitempty"`
	InnerHTML   string         `json:"innerHTML,omitempty" yaml:"innerHTML,omitempty"`
}

// UniqueID returns the identifier stored under UniqueIDKey, or "".
func (b Block) UniqueID() string {
	if b.Attrs == nil {
		return ""
	}
	switch value := b.Attrs[UniqueIDKey].(type) {
	case string:
		return strings.TrimSpace(value)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(value))
	}
}

// ParseJSON decodes a JSON array of blocks.
func ParseJSON(data []byte) ([]Block, error) {
	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("block: decode json: %w", err)
	}
	return blocks, nil
}

// ParseYAML decodes a YAML sequence of blocks.
func ParseYAML(data []byte) ([]Block, error) {
	var blocks []Block
	if err := yaml.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("block: decode yaml: %w", err)
	}
	return blocks, nil
}

// Walk visits blocks depth-first, parents before their inner blocks. Returning
// false from fn skips the inner blocks of that node.
func Walk(blocks []Block, fn func(Block) bool) {
	for _, b := range blocks {
		if fn(b) && len(b.InnerBlocks) > 0 {
			Walk(b.InnerBlocks, fn)
		}
	}
}

// EnsureUniqueIDs returns a copy of blocks where every node lacking a unique
// id receives one derived from namespace and the node's position in the tree.
// The derivation is deterministic so a form parsed on render and again on
// submission yields the same identifiers.
func EnsureUniqueIDs(blocks []Block, namespace string) []Block {
	return ensureIDs(blocks, namespace, "")
}

func ensureIDs(blocks []Block, namespace, prefix string) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, len(blocks))
	for idx, b := range blocks {
		path := prefix + "/" + strconv.Itoa(idx)
		attrs := make(map[string]any, len(b.Attrs)+1)
		for key, value := range b.Attrs {
			attrs[key] = value
		}
		if b.UniqueID() == "" {
			attrs[UniqueIDKey] = uuid.NewSHA1(uuid.NameSpaceURL, []byte(namespace+path)).String()
		}
		b.Attrs = attrs
		b.InnerBlocks = ensureIDs(b.InnerBlocks, namespace, path)
		out[idx] = b
	}
	return out
}
