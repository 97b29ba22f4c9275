// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// prefixRegex matches the prefix part of a compact IRI, e.g. `ex` in `ex:thing`.
var prefixRegex = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_.-]*):(.*)$`)

// Prefixes maps short prefixes to the IRI namespaces they abbreviate.
type Prefixes map[string]string

// Expand turns a compact IRI into an absolute one. Values with an unknown
// prefix, absolute IRIs and plain words are returned unchanged.
func (p Prefixes) Expand(compact string) string {
	matches := prefixRegex.FindStringSubmatch(compact)
	if matches == nil || strings.HasPrefix(matches[2], "//") {
		return compact
	}
	if ns, ok := p[matches[1]]; ok {
		return ns + matches[2]
	}
	return compact
}

// Compact is the inverse of Expand, using the longest matching namespace.
func (p Prefixes) Compact(iri string) string {
	best, bestNS := "", ""
	for prefix, ns := range p {
		if strings.HasPrefix(iri, ns) && len(ns) > len(bestNS) {
			best, bestNS = prefix, ns
		}
	}
	if bestNS == "" {
		return iri
	}
	return best + ":" + strings.TrimPrefix(iri, bestNS)
}

// Merge copies all entries of other into p, overwriting duplicates.
func (p Prefixes) Merge(other Prefixes) {
	for k, v := range other {
		p[k] = v
	}
}

// Parse creates an ID by parsing its canonical string representation.
// Compact IRIs are expanded with the given prefixes, which may be nil.
func Parse(raw string, prefixes Prefixes) (ID, error) {
	if raw == "" {
		return ID{}, fmt.Errorf("identifier cannot be empty")
	}

	switch {
	case strings.HasPrefix(raw, "_:"):
		label := raw[2:]
		if label == "" {
			return ID{}, fmt.Errorf("blank node identifier %q has an empty label", raw)
		}
		return Blank(label), nil

	case strings.HasPrefix(raw, `"`):
		return parseLiteral(raw, prefixes)

	default:
		if strings.ContainsAny(raw, " \t\n<>\"") {
			return ID{}, fmt.Errorf("invalid IRI %q: contains illegal characters", raw)
		}
		return Named(prefixes.Expand(raw)), nil
	}
}

// MustParse is like Parse but panics on malformed input. It is intended for
// identifiers that are constants in code.
func MustParse(raw string, prefixes Prefixes) ID {
	id, err := Parse(raw, prefixes)
	if err != nil {
		panic(fmt.Sprintf("nodeid: %v", err))
	}
	return id
}

func parseLiteral(raw string, prefixes Prefixes) (ID, error) {
	end := strings.LastIndex(raw, `"`)
	if end == 0 {
		return ID{}, fmt.Errorf("invalid literal %q: missing closing quote", raw)
	}

	value, err := strconv.Unquote(raw[:end+1])
	if err != nil {
		return ID{}, fmt.Errorf("invalid literal %q: %w", raw, err)
	}

	id := Lit(value)
	rest := raw[end+1:]
	switch {
	case rest == "":
	case strings.HasPrefix(rest, "^^<") && strings.HasSuffix(rest, ">"):
		id.Datatype = rest[3 : len(rest)-1]
	case strings.HasPrefix(rest, "^^"):
		id.Datatype = prefixes.Expand(rest[2:])
	default:
		return ID{}, fmt.Errorf("invalid literal %q: unexpected suffix %q", raw, rest)
	}
	if strings.HasPrefix(rest, "^^") && id.Datatype == "" {
		return ID{}, fmt.Errorf("invalid literal %q: empty datatype", raw)
	}
	return id, nil
}
