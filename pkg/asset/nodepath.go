package asset

import "strings"

// isNodeCodePath matches slash-separated identifier segments with an
// optional leading slash, e.g. "Player", "/root/Main", "UI/HUD_2".
func isNodeCodePath(path string) bool {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return false
	}
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			return false
		}
		for i := 0; i < len(segment); i++ {
			if !isIdentByte(segment[i]) {
				return false
			}
		}
	}
	return true
}

// NodeCode renders a node path the way script code spells it: unquoted when
// every segment is an identifier, otherwise as a quoted string literal.
func NodeCode(path string) string {
	if isNodeCodePath(path) {
		return path
	}
	return Quote(path)
}

// NodeRef renders a `$`-prefixed node reference.
func NodeRef(path string) string {
	return "$" + NodeCode(path)
}

// UniqueNodeRef renders a `%`-prefixed unique-name reference.
func UniqueNodeRef(name string) string {
	return "%" + NodeCode(name)
}

// ResolveNodePath rewrites a scene-relative path against the scene root:
// "." becomes /root/<root>, "./x" becomes "x", and other paths pass through.
func ResolveNodePath(path, root string) string {
	switch {
	case path == ".":
		if root == "" {
			return "/root"
		}
		return "/root/" + root
	case strings.HasPrefix(path, "./"):
		return strings.TrimPrefix(path, "./")
	default:
		return path
	}
}

// ChildNodePath joins a node's parent attribute and name into the node's
// path relative to the scene root.
func ChildNodePath(parent, name string) string {
	parent = strings.TrimPrefix(parent, "./")
	if parent == "." || parent == "" {
		return name
	}
	return strings.TrimSuffix(parent, "/") + "/" + name
}
