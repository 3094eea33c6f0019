// ABOUTME: Validator for hierarchical graph-resource names (nodes, parameters, namespaces).
// ABOUTME: Names are slash-delimited with a restricted character set.

package naming

import "regexp"

// legalName matches a non-empty legal graph-resource name: the first rune is
// '~', '/', or a letter, the remainder word characters or further slashes.
var legalName = regexp.MustCompile(`^[~/A-Za-z][0-9A-Za-z_/]*$`)

// IsLegalName reports whether name is a legal hierarchical graph-resource
// name. The empty string is legal; it denotes the enclosing namespace.
func IsLegalName(name string) bool {
	return name == "" || legalName.MatchString(name)
}
