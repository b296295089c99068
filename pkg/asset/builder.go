package asset

import (
	"path"
	"strings"
)

// sectionTag is the closed set of header tags with dedicated naming rules.
type sectionTag uint8

const (
	tagGeneric sectionTag = iota
	tagScene
	tagResourceFile
	tagExtResource
	tagSubResource
	tagNode
	tagConnection
	tagEditable
)

func classifyTag(tag string) sectionTag {
	switch tag {
	case "gd_scene":
		return tagScene
	case "gd_resource":
		return tagResourceFile
	case "ext_resource":
		return tagExtResource
	case "sub_resource":
		return tagSubResource
	case "node":
		return tagNode
	case "connection":
		return tagConnection
	case "editable":
		return tagEditable
	default:
		return tagGeneric
	}
}

// describeSection names a freshly opened section symbol and registers any
// resource it declares. Tags missing the attributes a rule needs fall back
// to the generic description.
func (s *scanner) describeSection(sym *Symbol, h *header) {
	var named bool
	switch classifyTag(h.tag) {
	case tagScene, tagResourceFile:
		named = s.describeDocumentRoot(sym, h)
	case tagExtResource:
		named = s.describeExtResource(sym, h)
	case tagSubResource:
		named = s.describeSubResource(sym, h)
	case tagNode:
		named = s.describeNode(sym, h)
	case tagConnection:
		named = s.describeConnection(sym, h)
	case tagEditable:
		named = s.describeEditable(sym, h)
	}
	if !named {
		describeGeneric(sym, h)
	}
}

func describeGeneric(sym *Symbol, h *header) {
	sym.Name = h.tag
	sym.Kind = KindNamespace
	if len(h.attrs) > 0 {
		sym.Kind = KindObject
	}
}

func (s *scanner) describeDocumentRoot(sym *Symbol, h *header) bool {
	sym.Name = h.tag
	sym.Kind = KindFile
	sym.Detail = h.text("type")
	s.state.Self = &ResourceDescriptor{
		Path:   s.state.Path,
		Type:   h.text("type"),
		Symbol: sym,
	}
	if uid := h.text("uid"); uid != "" {
		s.state.UID = uid
	}
	return true
}

func (s *scanner) describeExtResource(sym *Symbol, h *header) bool {
	resPath := h.text("path")
	if resPath == "" {
		resPath = h.text("uid")
	}
	named := resPath != ""
	if named {
		sym.Name = resPath
		sym.Detail = h.text("type")
		sym.Kind = KindVariable
	}

	// A header still being typed may lack its path; the id stays resolvable.
	if id, ok := h.attr("id"); ok {
		s.state.ExtResources[id.Value] = &ResourceDescriptor{
			Path:   resPath,
			Type:   h.text("type"),
			Symbol: sym,
		}
	}
	return named
}

func (s *scanner) describeSubResource(sym *Symbol, h *header) bool {
	id, ok := h.attr("id")
	if !ok {
		return false
	}
	sym.Name = "::" + id.Value
	sym.Detail = h.text("type")
	sym.Kind = KindObject
	s.state.SubResources[id.Value] = &ResourceDescriptor{
		Path:   s.state.Path + "::" + id.Value,
		Type:   h.text("type"),
		Symbol: sym,
	}
	return true
}

func (s *scanner) describeNode(sym *Symbol, h *header) bool {
	name, ok := h.attr("name")
	if !ok || name.Value == "" {
		return false
	}
	s.nodeName = name.Value
	sym.Kind = KindObject

	if parent, hasParent := h.attr("parent"); hasParent {
		sym.Name = NodeCode(ChildNodePath(parent.Value, name.Value))
	} else {
		if s.state.RootNode == "" {
			s.state.RootNode = name.Value
		}
		sym.Name = NodeRef(name.Value)
	}

	switch {
	case h.text("type") != "":
		sym.Detail = h.text("type")
	case h.text("index") != "":
		sym.Detail = "@" + h.text("index")
	default:
		if inst, ok := h.attr("instance"); ok {
			sym.Detail = s.instanceTitle(inst)
		}
	}
	return true
}

// instanceTitle names the scene a node instances, falling back to the raw
// expression when the reference does not resolve.
func (s *scanner) instanceTitle(inst Attribute) string {
	if inst.Call == nil {
		return inst.Raw
	}
	desc := s.state.Table(inst.Call.Keyword)[inst.Call.ID]
	if desc == nil {
		return inst.Raw
	}
	base := path.Base(desc.Path)
	return strings.TrimSuffix(base, path.Ext(base))
}

func (s *scanner) describeConnection(sym *Symbol, h *header) bool {
	signal, from, to, method := h.text("signal"), h.text("from"), h.text("to"), h.text("method")
	sym.Kind = KindEvent
	if signal == "" || from == "" || to == "" || method == "" {
		sym.Name = h.tag
		return true
	}
	root := s.state.RootNode
	sym.Name = NodeRef(ResolveNodePath(from, root)) + "." + signal +
		".connect(" + NodeRef(ResolveNodePath(to, root)) + "." + method + ")"
	return true
}

func (s *scanner) describeEditable(sym *Symbol, h *header) bool {
	nodePath := h.text("path")
	if nodePath == "" {
		return false
	}
	sym.Name = "is_editable_instance(" + NodeRef(ResolveNodePath(nodePath, s.state.RootNode)) + ")"
	sym.Kind = KindBoolean
	return true
}

// describeProperty sets a property symbol's kind and detail from its value
// text on the key line.
func (s *scanner) describeProperty(sym *Symbol, key, value string) {
	value = strings.TrimSpace(value)
	sym.Detail = value

	switch {
	case value == "true" || value == "false":
		sym.Kind = KindBoolean
	case strings.Contains(key, "/"):
		sym.Kind = KindVariable
	default:
		sym.Kind = KindProperty
	}

	if key == "unique_name_in_owner" && value == "true" &&
		s.section != nil && s.section.Tag == "node" && s.nodeName != "" {
		unique := UniqueNodeRef(s.nodeName)
		if s.section.Detail == "" {
			s.section.Detail = unique
		} else {
			s.section.Detail += " " + unique
		}
	}
}
