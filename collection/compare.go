package collection

import (
	"cmp"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ByAttr orders models by an attribute. Integers and floats compare
// numerically, anything else by its string form.
func ByAttr(key string) Comparator {
	return func(a, b *Model) int {
		x, y := a.Get(key), b.Get(key)
		if fx, ok := number(x); ok {
			if fy, ok := number(y); ok {
				return cmp.Compare(fx, fy)
			}
		}
		return strings.Compare(a.String(key), b.String(key))
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// ByAttrCollated orders models by a string attribute using the collation
// rules of tag, so that "école" sorts next to "ecole" rather than after "z".
func ByAttrCollated(key string, tag language.Tag, opts ...collate.Option) Comparator {
	c := collate.New(tag, opts...)
	return func(a, b *Model) int {
		return c.CompareString(a.String(key), b.String(key))
	}
}

// Reverse inverts a comparator.
func Reverse(c Comparator) Comparator {
	return func(a, b *Model) int { return c(b, a) }
}
