package common

import "fmt"

// --------------------------------------------------------------------------
// Method Identity
// --------------------------------------------------------------------------

// MethodIdentifier is the stable identity of a remote method: its declared
// name plus its 0-based positional index in declaration order. Identifiers
// are assigned once when the service interface is declared and are never
// recomputed at runtime.
type MethodIdentifier struct {
	Name  string `json:"name"`
	Index uint32 `json:"index"`
}

// NewMethodIdentifier creates a MethodIdentifier.
func NewMethodIdentifier(name string, index uint32) MethodIdentifier {
	return MethodIdentifier{Name: name, Index: index}
}

// String returns "name(#index)", e.g. "describe(#1)".
func (id MethodIdentifier) String() string {
	return fmt.Sprintf("%s(#%d)", id.Name, id.Index)
}

// --------------------------------------------------------------------------
// Partial Method Identity
// --------------------------------------------------------------------------

// PartialMethodIdentifier identifies a method by name or by index, whichever
// a server transport could recover from the wire. The binary codec transmits
// only the index, the textual codec only the name.
type PartialMethodIdentifier struct {
	Name     string
	Index    uint32
	HasIndex bool
}

// MethodByName creates a PartialMethodIdentifier carrying only a name.
func MethodByName(name string) PartialMethodIdentifier {
	return PartialMethodIdentifier{Name: name}
}

// MethodByIndex creates a PartialMethodIdentifier carrying only an index.
func MethodByIndex(index uint32) PartialMethodIdentifier {
	return PartialMethodIdentifier{Index: index, HasIndex: true}
}

// String returns "#index" for index-based and the plain name for name-based
// identifiers.
func (p PartialMethodIdentifier) String() string {
	if p.HasIndex {
		return fmt.Sprintf("#%d", p.Index)
	}
	return p.Name
}
