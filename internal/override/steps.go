package override

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// StepHandler applies one kind of override step to a config.
type StepHandler interface {
	CanHandle(config, step *graph.Resource) bool
	Handle(config, step *graph.Resource) (*graph.Resource, error)
}

// parametersHandler replaces the parameter values of the config. When the
// override value declares a different type, every existing property is
// dropped first since it belonged to the old type.
type parametersHandler struct{}

func (parametersHandler) CanHandle(_, step *graph.Resource) bool {
	return step.IsA(vocab.StepParameters)
}

func (parametersHandler) Handle(config, step *graph.Resource) (*graph.Resource, error) {
	value, err := singleField(config, step, vocab.OverrideValue)
	if err != nil {
		return nil, err
	}

	if types := value.Types(); len(types) > 0 && !sharesType(config, types) {
		config.ReplaceProperties(value)
		return config, nil
	}
	for _, predicate := range value.Predicates() {
		config.SetProperty(predicate, value.Properties(predicate)...)
	}
	return config, nil
}

func sharesType(config *graph.Resource, types []*graph.Resource) bool {
	for _, t := range types {
		if config.IsA(t.Value()) {
			return true
		}
	}
	return false
}

type listInsertBeforeHandler struct{ store *graph.Store }

func (listInsertBeforeHandler) CanHandle(_, step *graph.Resource) bool {
	return step.IsA(vocab.StepListInsertBefore)
}

func (h listInsertBeforeHandler) Handle(config, step *graph.Resource) (*graph.Resource, error) {
	return insertRelative(h.store, config, step, 0)
}

type listInsertAfterHandler struct{ store *graph.Store }

func (listInsertAfterHandler) CanHandle(_, step *graph.Resource) bool {
	return step.IsA(vocab.StepListInsertAfter)
}

func (h listInsertAfterHandler) Handle(config, step *graph.Resource) (*graph.Resource, error) {
	return insertRelative(h.store, config, step, 1)
}

func insertRelative(store *graph.Store, config, step *graph.Resource, offset int) (*graph.Resource, error) {
	l, err := loadList(config, step)
	if err != nil {
		return nil, err
	}
	target, err := singleField(config, step, vocab.OverrideTarget)
	if err != nil {
		return nil, err
	}
	index, err := l.locate(target)
	if err != nil {
		return nil, err
	}
	l.insert(index+offset, stepValues(step))
	l.store(store)
	return config, nil
}

// listInsertAtHandler inserts at a numeric index. Negative indexes count from
// the end of the list, and "-0" appends.
type listInsertAtHandler struct{ store *graph.Store }

func (listInsertAtHandler) CanHandle(_, step *graph.Resource) bool {
	return step.IsA(vocab.StepListInsertAt)
}

func (h listInsertAtHandler) Handle(config, step *graph.Resource) (*graph.Resource, error) {
	l, err := loadList(config, step)
	if err != nil {
		return nil, err
	}
	target, err := singleField(config, step, vocab.OverrideTarget)
	if err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(target.Value())
	index, convErr := strconv.Atoi(raw)
	if convErr != nil || !target.IsLiteral() {
		return nil, graph.NewError(
			fmt.Sprintf("Invalid index in override list insert at step: %q", raw),
			"config", config,
			"step", step,
		)
	}
	switch {
	case raw == "-0":
		index = len(l.members)
	case index < 0:
		index += len(l.members)
	}
	if index < 0 || index > len(l.members) {
		return nil, graph.NewError(
			fmt.Sprintf("Index %s is out of bounds for list of length %d in override list insert at step", raw, len(l.members)),
			"config", config,
			"step", step,
		)
	}

	l.insert(index, stepValues(step))
	l.store(h.store)
	return config, nil
}

// listRemoveHandler removes one or more located elements.
type listRemoveHandler struct{ store *graph.Store }

func (listRemoveHandler) CanHandle(_, step *graph.Resource) bool {
	return step.IsA(vocab.StepListRemove)
}

func (h listRemoveHandler) Handle(config, step *graph.Resource) (*graph.Resource, error) {
	l, err := loadList(config, step)
	if err != nil {
		return nil, err
	}
	targets := expand(step.Properties(vocab.OverrideTarget))
	if len(targets) == 0 {
		return nil, graph.NewError(
			"Missing overrideTarget in override list remove step",
			"config", config,
			"step", step,
		)
	}
	for _, target := range targets {
		index, err := l.locate(target)
		if err != nil {
			return nil, err
		}
		l.members = append(l.members[:index], l.members[index+1:]...)
	}
	l.store(h.store)
	return config, nil
}

// mapEntryHandler replaces the value of the entry with the given key, or
// removes the entry when the step has no value.
type mapEntryHandler struct{ store *graph.Store }

func (mapEntryHandler) CanHandle(_, step *graph.Resource) bool {
	return step.IsA(vocab.StepMapEntry)
}

func (h mapEntryHandler) Handle(config, step *graph.Resource) (*graph.Resource, error) {
	l, err := loadList(config, step)
	if err != nil {
		return nil, err
	}
	key, err := singleField(config, step, vocab.OverrideTarget)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, entry := range l.members {
		if k := entry.Property(vocab.Key); k != nil && k.Value() == key.Value() {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, graph.NewError(
			fmt.Sprintf("Unable to find map entry with key %q in parameter %s", key.Value(), l.parameter),
			"config", config,
			"step", step,
			"entries", l.members,
		)
	}

	values := step.Properties(vocab.OverrideValue)
	if len(values) == 0 {
		l.members = append(l.members[:index], l.members[index+1:]...)
	} else {
		entry := h.store.NewBlank()
		entry.ReplaceProperties(l.members[index])
		entry.SetProperty(vocab.Value, values...)
		l.members[index] = entry
	}
	l.store(h.store)
	return config, nil
}

// singleField returns the only value of a step field.
func singleField(config, step *graph.Resource, predicate string) (*graph.Resource, error) {
	values := step.Properties(predicate)
	if len(values) != 1 {
		return nil, graph.NewError(
			fmt.Sprintf("Expected exactly one %s in override step, got %d", predicate, len(values)),
			"config", config,
			"step", step,
		)
	}
	return values[0], nil
}

// stepValues returns the values a step inserts. A single list value
// contributes its members.
func stepValues(step *graph.Resource) []*graph.Resource {
	return expand(step.Properties(vocab.OverrideValue))
}

func expand(values []*graph.Resource) []*graph.Resource {
	if len(values) == 1 {
		if members, ok := values[0].List(); ok {
			return members
		}
	}
	return values
}
