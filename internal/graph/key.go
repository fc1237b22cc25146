package graph

import (
	"strings"

	"github.com/vk/rescomp/internal/record"
)

// Key identifies a resource uniquely among winners: namespace path, leaf
// name, kind tag, and (when present) the profile qualifier. Two different
// kinds may share a name and namespace; a profile-qualified key is distinct
// from its unqualified counterpart.
type Key struct {
	Namespace []string
	Name      string
	Kind      record.Kind
	Profile   string
}

// KeyFromPath builds a key from a slash-separated qualified path, the last
// segment becoming the leaf name.
func KeyFromPath(kind record.Kind, path string) Key {
	parts := splitPath(path)
	if len(parts) == 0 {
		return Key{Kind: kind}
	}
	return Key{
		Namespace: parts[:len(parts)-1],
		Name:      parts[len(parts)-1],
		Kind:      kind,
	}
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Path returns the slash-joined qualified name without the kind tag.
func (k Key) Path() string {
	if len(k.Namespace) == 0 {
		return k.Name
	}
	return strings.Join(k.Namespace, "/") + "/" + k.Name
}

// ID returns the canonical map identity of the key.
func (k Key) ID() string {
	id := string(k.Kind) + ":" + k.Path()
	if k.Profile != "" {
		id += "@" + k.Profile
	}
	return id
}

// String renders the key for diagnostics.
func (k Key) String() string { return k.ID() }
