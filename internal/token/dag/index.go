// Package dag orders tokens by their use-dependencies so context updates
// can run dependencies before dependents and cycles are caught early.
package dag

import (
	"sort"
	"strings"
)

type TokenID uint32

// Node is one token's view for graph building: its qualified name, the
// qualified names of the tokens it reads, and where it was declared.
type Node struct {
	Name string
	Uses []string
}

type Index struct {
	NameToID map[string]TokenID // keys lowercased
	IDToName []string           // display casing, first seen wins
}

// BuildIndex collects unique token names (declared and referenced),
// sorts them, and hands out IDs in order.
func BuildIndex(nodes []Node) Index {
	uniq := make(map[string]string, len(nodes))
	add := func(name string) {
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if _, ok := uniq[key]; !ok {
			uniq[key] = name
		}
	}
	for _, node := range nodes {
		add(node.Name)
		for _, dep := range node.Uses {
			add(dep)
		}
	}

	keys := make([]string, 0, len(uniq))
	for key := range uniq {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	nameToID := make(map[string]TokenID, len(keys))
	idToName := make([]string, len(keys))
	for i, key := range keys {
		nameToID[key] = TokenID(i)
		idToName[i] = uniq[key]
	}

	return Index{
		NameToID: nameToID,
		IDToName: idToName,
	}
}

// Lookup resolves a token name case-insensitively.
func (idx Index) Lookup(name string) (TokenID, bool) {
	id, ok := idx.NameToID[strings.ToLower(name)]
	return id, ok
}
