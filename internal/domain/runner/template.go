package runner

import "strings"

// Render substitutes every {{NAME}} placeholder in template with the mapped
// value. Placeholders without a mapping are left verbatim; callers are
// responsible for supplying every token their template requires. The function
// is pure and substitution is order-independent: a substituted value is never
// rescanned for further tokens.
func Render(template string, values map[string]string) string {
	if len(values) == 0 {
		return template
	}
	replacements := make([]string, 0, len(values)*2)
	for name, value := range values {
		replacements = append(replacements, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(replacements...).Replace(template)
}
