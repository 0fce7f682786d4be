package asset

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
)

type ShaderType uint8

const (
	ShaderVertex ShaderType = iota
	ShaderFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderVertex:
		return "vertex"
	case ShaderFragment:
		return "fragment"
	default:
		return fmt.Sprintf("shader_type(%d)", uint8(t))
	}
}

// EntryPoint and Target are the HLSL compile settings for the program type.
func (t ShaderType) EntryPoint() string {
	if t == ShaderFragment {
		return "frag"
	}
	return "vert"
}

func (t ShaderType) Target() string {
	if t == ShaderFragment {
		return "ps_2_0"
	}
	return "vs_2_0"
}

func ParseShaderType(s string) (ShaderType, error) {
	switch s {
	case "vertex":
		return ShaderVertex, nil
	case "fragment":
		return ShaderFragment, nil
	}
	return 0, fmt.Errorf("%w: unknown program type %q", ErrInvalidShader, s)
}

// AutoConstant identifies a renderer supplied shader parameter.
type AutoConstant int

// LookupAutoConstant resolves a binding name such as "worldviewproj_matrix".
func LookupAutoConstant(name string) (AutoConstant, bool) {
	c, ok := autoConstants[name]
	return c, ok
}

// ShaderDescriptor is the .sha file layout.
type ShaderDescriptor struct {
	Source           string            `json:"source"`
	Type             string            `json:"type"`
	Defines          []string          `json:"defines,omitempty"`
	Params           map[string]string `json:"params,omitempty"`
	Instancing       bool              `json:"instancing,omitempty"`
	InstancingParams map[string]string `json:"instancing_params,omitempty"`
}

func ParseShaderDescriptor(data []byte) (ShaderDescriptor, error) {
	var desc ShaderDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return ShaderDescriptor{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return desc, nil
}

// Program is one compiled variant of a shader.
type Program struct {
	Name       string
	Type       ShaderType
	Source     string
	EntryPoint string
	Target     string
	Defines    []string
	Params     map[string]AutoConstant
}

// ParamNames lists the bound parameter names in sorted order.
func (p *Program) ParamNames() []string {
	names := make([]string, 0, len(p.Params))
	for name := range p.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Shader is a program with an optional instancing variant.
type Shader struct {
	id        ID
	regular   *Program
	instanced *Program
}

func (s *Shader) ID() ID { return s.id }

func (s *Shader) Valid() bool { return s != nil && s.regular != nil }

func (s *Shader) HasInstanced() bool { return s != nil && s.instanced != nil }

func (s *Shader) Regular() *Program { return s.regular }

// TryGetInstanced returns the instancing variant, falling back to the regular program.
func (s *Shader) TryGetInstanced() *Program {
	if s.instanced != nil {
		return s.instanced
	}
	return s.regular
}

func (s *Shader) Type() ShaderType { return s.regular.Type }

// buildProgram assembles a program variant. Unknown parameter bindings are
// returned in skipped rather than failing the build.
func buildProgram(name string, typ ShaderType, source string, defines []string, params map[string]string, instancing bool) (*Program, []string) {
	p := &Program{
		Name:       name,
		Type:       typ,
		Source:     source,
		EntryPoint: typ.EntryPoint(),
		Target:     typ.Target(),
		Defines:    slices.DeleteFunc(slices.Clone(defines), func(d string) bool { return d == "" }),
		Params:     make(map[string]AutoConstant, len(params)),
	}
	if instancing {
		p.Name += "_instancing"
		p.Defines = append(p.Defines, "INSTANCING")
	}

	var skipped []string
	for param, binding := range params {
		c, ok := LookupAutoConstant(binding)
		if !ok {
			skipped = append(skipped, param)
			continue
		}
		p.Params[param] = c
	}
	sort.Strings(skipped)
	return p, skipped
}

func (c AutoConstant) String() string {
	if c < 1 || int(c) > len(autoConstantNames) {
		return fmt.Sprintf("auto_constant(%d)", int(c))
	}
	return autoConstantNames[c-1]
}
