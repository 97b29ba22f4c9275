package construct

import (
	"errors"
	"fmt"
	"maps"
)

var (
	// ErrUndefinedVariable is returned for variable references without a
	// value in Settings.Variables.
	ErrUndefinedVariable = errors.New("undefined variable")
	// ErrUnsupportedArgument is the cause of errors for argument values no
	// handler accepts.
	ErrUnsupportedArgument = errors.New("unsupported argument value")
)

// Settings are caller-supplied construction settings.
type Settings struct {
	// Shallow resolves references to empty hashes instead of constructing
	// them.
	Shallow bool
	// Variables maps variable IRIs to their values.
	Variables map[string]any

	// blacklist holds the identities in the current dependency chain.
	blacklist map[string]struct{}
	// owner is the identity whose construction requested the value.
	owner string
}

// Blacklisted reports whether the identity is being constructed higher up in
// the current dependency chain.
func (s Settings) Blacklisted(key string) bool {
	_, ok := s.blacklist[key]
	return ok
}

// withBlacklisted returns a copy of the settings for the construction of the
// given identity, with the identity added to the blacklist. The receiver is
// left untouched.
func (s Settings) withBlacklisted(key string) Settings {
	out := s
	out.blacklist = make(map[string]struct{}, len(s.blacklist)+1)
	maps.Copy(out.blacklist, s.blacklist)
	out.blacklist[key] = struct{}{}
	out.owner = key
	return out
}

// LookupVariable returns the value of a variable, or ErrUndefinedVariable.
func LookupVariable(s Settings, name string) (any, error) {
	v, ok := s.Variables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUndefinedVariable, name)
	}
	return v, nil
}
