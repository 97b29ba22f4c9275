package hclplan

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/gridwire/internal/construct"
	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// BlockType is the type of the blocks the plan is made of.
const BlockType = "instance"

// Strategy renders instantiations into an HCL plan. Every Instance it
// returns is an hclwrite.Tokens expression.
type Strategy struct {
	mu     sync.Mutex
	file   *hclwrite.File
	labels map[string]int
}

// New creates a Strategy with an empty plan.
func New() *Strategy {
	return &Strategy{file: hclwrite.NewEmptyFile(), labels: make(map[string]int)}
}

// Bytes returns the formatted plan. Blocks appear in construction order, so
// dependencies come before the instances using them.
func (s *Strategy) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return hclwrite.Format(s.file.Bytes())
}

// Reset discards the plan.
func (s *Strategy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = hclwrite.NewEmptyFile()
	s.labels = make(map[string]int)
}

func (s *Strategy) CreateInstance(ctx context.Context, opts construct.InstanceOptions) (construct.Instance, error) {
	args := make([]hclwrite.Tokens, len(opts.Args))
	for i, arg := range opts.Args {
		tokens, err := asTokens(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d of %s: %w", i, opts.InstanceID, err)
		}
		args[i] = tokens
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	label := s.label(opts.InstanceID)
	body := s.file.Body().AppendNewBlock(BlockType, []string{label}).Body()
	body.SetAttributeValue("id", cty.StringVal(opts.InstanceID))
	body.SetAttributeValue("module", cty.StringVal(opts.RequireName))
	if opts.RequireElement != "" {
		body.SetAttributeValue("member", cty.StringVal(opts.RequireElement))
	}
	body.SetAttributeValue("construct", cty.BoolVal(opts.CallConstructor))
	body.SetAttributeRaw("args", hclwrite.TokensForTuple(args))
	s.file.Body().AppendNewline()

	ctxlog.FromContext(ctx).Debug("Planned instance.", "instance", opts.InstanceID, "label", label)
	return reference(label), nil
}

func (s *Strategy) CreateHash(_ context.Context, opts construct.HashOptions) (construct.Instance, error) {
	attrs := make([]hclwrite.ObjectAttrTokens, 0, len(opts.Entries))
	for _, e := range opts.Entries {
		if e == nil {
			continue
		}
		value, err := asTokens(e.Value)
		if err != nil {
			return nil, fmt.Errorf("hash entry %q: %w", e.Key, err)
		}
		attrs = append(attrs, hclwrite.ObjectAttrTokens{
			Name:  hclwrite.TokensForValue(cty.StringVal(e.Key)),
			Value: value,
		})
	}
	return hclwrite.TokensForObject(attrs), nil
}

func (s *Strategy) CreateArray(_ context.Context, opts construct.ArrayOptions) (construct.Instance, error) {
	elements := make([]hclwrite.Tokens, len(opts.Elements))
	for i, e := range opts.Elements {
		tokens, err := asTokens(e)
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", i, err)
		}
		elements[i] = tokens
	}
	return hclwrite.TokensForTuple(elements), nil
}

func (s *Strategy) CreatePrimitive(_ context.Context, opts construct.PrimitiveOptions) (construct.Instance, error) {
	v, err := toCtyValue(opts.Value)
	if err != nil {
		return nil, err
	}
	return hclwrite.TokensForValue(v), nil
}

// CreateLazySupplier renders the deferred value wrapped in a lazy() call.
// The supplier runs now, since a plan has no later.
func (s *Strategy) CreateLazySupplier(ctx context.Context, opts construct.LazyOptions) (construct.Instance, error) {
	inner, err := opts.Supplier(ctx)
	if err != nil {
		return nil, err
	}
	tokens, err := asTokens(inner)
	if err != nil {
		return nil, err
	}
	return hclwrite.TokensForFunctionCall("lazy", tokens), nil
}

func (s *Strategy) CreateUndefined(context.Context) construct.Instance {
	return hclwrite.TokensForValue(cty.NullVal(cty.DynamicPseudoType))
}

// GetVariableValue renders a variable() call. Variable values are not
// looked up: the plan stays valid for any value.
func (s *Strategy) GetVariableValue(_ context.Context, opts construct.VariableOptions) (construct.Instance, error) {
	return hclwrite.TokensForFunctionCall("variable", hclwrite.TokensForValue(cty.StringVal(opts.VariableName))), nil
}

// label derives a unique block label from an instance id. Callers hold mu.
func (s *Strategy) label(id string) string {
	base := id
	if i := strings.LastIndexAny(base, "/#:"); i >= 0 && i < len(base)-1 {
		base = base[i+1:]
	}
	base = sanitize(base)

	s.labels[base]++
	if n := s.labels[base]; n > 1 {
		return base + "_" + strconv.Itoa(n)
	}
	return base
}

// sanitize turns text into a valid HCL identifier.
func sanitize(text string) string {
	var b strings.Builder
	for i, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9', r == '-':
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

func reference(label string) hclwrite.Tokens {
	return hclwrite.TokensForTraversal(hcl.Traversal{
		hcl.TraverseRoot{Name: BlockType},
		hcl.TraverseAttr{Name: label},
	})
}

func asTokens(v construct.Instance) (hclwrite.Tokens, error) {
	if tokens, ok := v.(hclwrite.Tokens); ok {
		return tokens, nil
	}
	return nil, fmt.Errorf("unexpected plan value of type %T", v)
}
