package sim

import (
	"fmt"
	"strings"
	"unicode"
)

// NameMustBeValid panics if the name does not follow the naming convention.
// A name is a series of elements separated by dots, such as "Cache.L1".
// Every element is non-empty, starts with a capital letter, and holds only
// letters and digits.
func NameMustBeValid(name string) {
	if err := validateName(name); err != nil {
		panic(fmt.Sprintf("name %q is not valid: %s", name, err))
	}
}

func validateName(name string) error {
	for _, elem := range strings.Split(name, ".") {
		if elem == "" {
			return fmt.Errorf("empty element")
		}

		if !unicode.IsUpper(rune(elem[0])) {
			return fmt.Errorf("element %q must start with a capital letter",
				elem)
		}

		for _, r := range elem {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return fmt.Errorf("element %q must not contain %q", elem, r)
			}
		}
	}

	return nil
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}
