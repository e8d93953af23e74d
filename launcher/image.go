package launcher

import "fmt"

// aliasedValue carries a value supplied through a deprecated option together
// with the option names involved. Deprecated aliases are resolved from this
// table rather than ad hoc conditionals so adding one is a single entry.
type aliasedValue struct {
	legacy  string // deprecated option name
	current string // replacement option name
	value   string // value supplied via the deprecated option
}

// resolveAliased returns the binding value for an option with deprecated
// aliases: the current value wins, then aliases in table order fill the gap.
// A deprecation warning is emitted for every alias that is set, whether or
// not it ends up binding.
func resolveAliased(current string, aliased []aliasedValue) (string, []string) {
	var warnings []string
	resolved := current
	for _, a := range aliased {
		if a.value == "" {
			continue
		}
		warnings = append(warnings,
			fmt.Sprintf("option -%s is deprecated, use -%s instead", a.legacy, a.current))
		if resolved == "" {
			resolved = a.value
		}
	}
	return resolved, warnings
}

// ResolveImage resolves the effective container image from the preferred
// head-image option and its deprecated pod-image alias.
func ResolveImage(headImage, podImage string) (image string, warnings []string) {
	return resolveAliased(headImage, []aliasedValue{
		{legacy: "pod-image", current: "head-image", value: podImage},
	})
}
