package manifest

import "strings"

// ToPascalCase converts a string to PascalCase.
// "my-app" -> "MyApp", "models" -> "Models", "myApp" -> "MyApp"
func ToPascalCase(s string) string {
	var words []string
	current := ""
	for i, r := range s {
		if r == '-' || r == '_' {
			if current != "" {
				words = append(words, current)
				current = ""
			}
			continue
		}
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := rune(s[i-1])
			if prev >= 'a' && prev <= 'z' {
				words = append(words, current)
				current = ""
			}
		}
		current += string(r)
	}
	if current != "" {
		words = append(words, current)
	}

	var result string
	for _, w := range words {
		if w == "" {
			continue
		}
		result += strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return result
}

// Qualify prefixes name with namespace unless it is already qualified.
// An empty namespace leaves names untouched.
func Qualify(namespace, name string) string {
	if namespace == "" || strings.Contains(name, "::") {
		return name
	}
	return namespace + "::" + name
}

// IsReservedNamespace reports whether the root segment of name uses the
// double-underscore prefix the runtime keeps for internal members.
// "__Core::Thing" is reserved; "Core::__thing" is not, since only the
// root segment is checked.
func IsReservedNamespace(name string) bool {
	root := name
	if idx := strings.Index(name, "::"); idx >= 0 {
		root = name[:idx]
	}
	return strings.HasPrefix(root, "__")
}
