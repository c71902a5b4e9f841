package grader

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/codalotl/agent-evals/internal/types"
)

// ToolCalled passes when a tool call named name is present. An empty
// call list always fails.
func ToolCalled(name string) Fn {
	gname := fmt.Sprintf("toolCalled(%q)", name)
	return func(_ context.Context, output types.TargetOutput, _ *types.CaseExpected, _ Context) (types.GradeResult, error) {
		for _, c := range output.ToolCalls {
			if c.Name == name {
				return result(gname, true, 1, fmt.Sprintf("%q was called", name)), nil
			}
		}
		return result(gname, false, 0, fmt.Sprintf("%q was not called", name)), nil
	}
}

// ToolNotCalled passes when no tool call named name is present. An empty
// call list always passes.
func ToolNotCalled(name string) Fn {
	gname := fmt.Sprintf("toolNotCalled(%q)", name)
	return func(_ context.Context, output types.TargetOutput, _ *types.CaseExpected, _ Context) (types.GradeResult, error) {
		for _, c := range output.ToolCalls {
			if c.Name == name {
				return result(gname, false, 0, fmt.Sprintf("%q was called", name)), nil
			}
		}
		return result(gname, true, 1, fmt.Sprintf("%q was not called", name)), nil
	}
}

// SequenceMode selects the comparison semantics for ToolSequence.
type SequenceMode string

const (
	SequenceStrict    SequenceMode = "strict"
	SequenceUnordered SequenceMode = "unordered"
	SequenceSubset    SequenceMode = "subset"
	SequenceSuperset  SequenceMode = "superset"
)

// ToolSequence compares the ordered names of output.toolCalls against
// names under the given mode.
func ToolSequence(names []string, mode SequenceMode) Fn {
	gname := fmt.Sprintf("toolSequence(%v,%s)", names, mode)
	return func(_ context.Context, output types.TargetOutput, _ *types.CaseExpected, _ Context) (types.GradeResult, error) {
		actual := make([]string, len(output.ToolCalls))
		for i, c := range output.ToolCalls {
			actual[i] = c.Name
		}

		pass, reason := evalSequence(names, actual, mode)
		score := 0.0
		if pass {
			score = 1
		}
		return result(gname, pass, score, reason), nil
	}
}

func evalSequence(expected, actual []string, mode SequenceMode) (bool, string) {
	switch mode {
	case SequenceStrict:
		if len(expected) != len(actual) {
			return false, fmt.Sprintf("expected %d calls, got %d", len(expected), len(actual))
		}
		for i := range expected {
			if expected[i] != actual[i] {
				return false, fmt.Sprintf("call %d: expected %q, got %q", i, expected[i], actual[i])
			}
		}
		return true, "sequence matches exactly"
	case SequenceUnordered:
		if !multisetEqual(expected, actual) {
			return false, "call multisets differ"
		}
		return true, "call multisets match"
	case SequenceSubset:
		for _, want := range expected {
			if !contains(actual, want) {
				return false, fmt.Sprintf("expected call %q not found", want)
			}
		}
		return true, "all expected calls present"
	case SequenceSuperset:
		for _, got := range actual {
			if !contains(expected, got) {
				return false, fmt.Sprintf("unexpected call %q", got)
			}
		}
		return true, "all calls were expected"
	default:
		return false, fmt.Sprintf("unknown sequence mode %q", mode)
	}
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func multisetEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := map[string]int{}
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

// ArgsMatchMode selects the comparison semantics for ToolArgsMatch.
type ArgsMatchMode string

const (
	ArgsExact    ArgsMatchMode = "exact"
	ArgsSubset   ArgsMatchMode = "subset"
	ArgsContains ArgsMatchMode = "contains"
)

// ToolArgsMatch locates the first tool call named name and compares its
// args against expected under the given mode.
func ToolArgsMatch(name string, expected map[string]any, mode ArgsMatchMode) Fn {
	gname := fmt.Sprintf("toolArgsMatch(%q,%s)", name, mode)
	return func(_ context.Context, output types.TargetOutput, _ *types.CaseExpected, _ Context) (types.GradeResult, error) {
		var call *types.ToolCall
		for i := range output.ToolCalls {
			if output.ToolCalls[i].Name == name {
				call = &output.ToolCalls[i]
				break
			}
		}
		if call == nil {
			return result(gname, false, 0, fmt.Sprintf("%q was not called", name)), nil
		}

		ok, reason := evalArgsMatch(expected, call.Args, mode)
		score := 0.0
		if ok {
			score = 1
		}
		return result(gname, ok, score, reason), nil
	}
}

func evalArgsMatch(expected, actual map[string]any, mode ArgsMatchMode) (bool, string) {
	switch mode {
	case ArgsExact:
		if len(expected) != len(actual) {
			return false, "key sets differ in size"
		}
		for k, v := range expected {
			av, ok := actual[k]
			if !ok || !reflect.DeepEqual(v, av) {
				return false, fmt.Sprintf("key %q: expected %v, got %v", k, v, av)
			}
		}
		return true, "args match exactly"
	case ArgsSubset:
		for k, v := range expected {
			av, ok := actual[k]
			if !ok || !reflect.DeepEqual(v, av) {
				return false, fmt.Sprintf("key %q: expected %v, got %v", k, v, av)
			}
		}
		return true, "expected keys are present and equal"
	case ArgsContains:
		for k, v := range expected {
			av, ok := actual[k]
			if !ok {
				return false, fmt.Sprintf("key %q missing", k)
			}
			vs, vIsString := v.(string)
			as, aIsString := av.(string)
			if vIsString && aIsString {
				if !strings.Contains(as, vs) {
					return false, fmt.Sprintf("key %q: %q does not contain %q", k, as, vs)
				}
				continue
			}
			if !reflect.DeepEqual(v, av) {
				return false, fmt.Sprintf("key %q: expected %v, got %v", k, v, av)
			}
		}
		return true, "expected keys are present and match"
	default:
		return false, fmt.Sprintf("unknown args match mode %q", mode)
	}
}
