package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// TagPrefix devuelve la parte fija de la caravana para un año: "COW-2026-" o "COW-".
func (t Tagging) TagPrefix(year int) string {
	if t.IncludeYear {
		return fmt.Sprintf("%s-%04d-", t.Prefix, year)
	}
	return t.Prefix + "-"
}

func (t Tagging) Format(year, seq int) string {
	pad := t.Padding
	if pad <= 0 {
		pad = 4
	}
	return fmt.Sprintf("%s%0*d", t.TagPrefix(year), pad, seq)
}

// Sequence extrae el número secuencial de una caravana con el prefijo del año.
func (t Tagging) Sequence(tag string, year int) (int, bool) {
	prefix := t.TagPrefix(year)
	if !strings.HasPrefix(strings.ToUpper(tag), strings.ToUpper(prefix)) {
		return 0, false
	}
	n, err := strconv.Atoi(tag[len(prefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NextTag = mayor secuencia existente + 1.
func (t Tagging) NextTag(existing []string, year int) string {
	max := 0
	for _, tag := range existing {
		if n, ok := t.Sequence(tag, year); ok && n > max {
			max = n
		}
	}
	return t.Format(year, max+1)
}
