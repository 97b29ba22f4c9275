package override

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// targetList is the editable copy of the elements a step operates on.
type targetList struct {
	config    *graph.Resource
	parameter string
	members   []*graph.Resource
	// direct is set when the elements are plain property values rather than
	// the members of a list node.
	direct bool
}

// loadList reads the elements of the step's parameter on the config. Lists
// are edited as copies and written back as new list nodes, so list nodes
// shared with other configs stay untouched.
func loadList(config, step *graph.Resource) (*targetList, error) {
	parameter, err := singleField(config, step, vocab.OverrideParameter)
	if err != nil {
		return nil, err
	}
	l := &targetList{config: config, parameter: parameter.Value()}

	values := config.Properties(l.parameter)
	switch {
	case len(values) == 0:
	case len(values) == 1 && values[0].IsList():
		l.members, _ = values[0].List()
	case step.IsA(vocab.StepMapEntry):
		l.members = values
		l.direct = true
	default:
		return nil, graph.NewError(
			fmt.Sprintf("Invalid target in override list step: parameter %s does not refer to a list", l.parameter),
			"config", config,
			"step", step,
			"values", values,
		)
	}
	return l, nil
}

// locate returns the index of the element equal to target. Nodes match by
// identity, literals by value.
func (l *targetList) locate(target *graph.Resource) (int, error) {
	for i, m := range l.members {
		if sameTerm(m, target) {
			return i, nil
		}
	}
	return -1, graph.NewError(
		fmt.Sprintf("Unable to find the override target %s in parameter %s", target.Key(), l.parameter),
		"config", l.config,
		"elements", l.members,
	)
}

func (l *targetList) insert(index int, values []*graph.Resource) {
	l.members = slices.Insert(l.members, index, values...)
}

// store writes the edited elements back onto the config.
func (l *targetList) store(s *graph.Store) {
	if l.direct {
		l.config.SetProperty(l.parameter, l.members...)
		return
	}
	l.config.SetProperty(l.parameter, s.NewList(l.members...))
}

func sameTerm(a, b *graph.Resource) bool {
	if a.IsLiteral() || b.IsLiteral() {
		return a.ID.Equal(b.ID)
	}
	return a.Same(b)
}
