// Package stack assembles groundwork resources into CloudFormation templates.
//
// Constructs add resources to a Stack under explicit logical IDs and wire
// references through the returned handles:
//
//	s := stack.New("nightly-backups")
//	role := s.Add("BackupRole", iam.Role{...})
//	s.Add("BackupProject", codebuild.Project{ServiceRole: role.Attr("Arn")})
package stack

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/substratehq/groundwork"
	"github.com/substratehq/groundwork/internal/serialize"
	"github.com/substratehq/groundwork/intrinsics"
)

// Stack is an ordered collection of CloudFormation resources, parameters,
// and outputs that renders to a single template.
type Stack struct {
	name        string
	description string
	order       []string
	resources   map[string]groundwork.Resource
	dependsOn   map[string][]string
	parameters  map[string]groundwork.Parameter
	outputs     map[string]groundwork.Output
	errs        []error
}

// New creates an empty stack with the given name.
func New(name string) *Stack {
	return &Stack{
		name:       name,
		resources:  make(map[string]groundwork.Resource),
		dependsOn:  make(map[string][]string),
		parameters: make(map[string]groundwork.Parameter),
		outputs:    make(map[string]groundwork.Output),
	}
}

// Name returns the stack name.
func (s *Stack) Name() string { return s.name }

// SetDescription sets the template description.
func (s *Stack) SetDescription(d string) { s.description = d }

// Handle identifies a resource added to a stack and produces intrinsic
// references to it.
type Handle struct {
	LogicalID string
}

// Ref returns a Ref intrinsic for the resource.
func (h Handle) Ref() intrinsics.Ref {
	return intrinsics.Ref{LogicalName: h.LogicalID}
}

// Attr returns a GetAtt intrinsic for the named attribute.
func (h Handle) Attr(name string) intrinsics.GetAtt {
	return intrinsics.GetAtt{LogicalName: h.LogicalID, Attribute: name}
}

// Arn returns a GetAtt intrinsic for the Arn attribute.
func (h Handle) Arn() intrinsics.GetAtt {
	return h.Attr("Arn")
}

// Add registers a resource under the given logical ID. Duplicate IDs are
// recorded as errors and reported by Template.
func (s *Stack) Add(logicalID string, r groundwork.Resource) Handle {
	if _, exists := s.resources[logicalID]; exists {
		s.errs = append(s.errs, fmt.Errorf("duplicate logical id: %s", logicalID))
		return Handle{LogicalID: logicalID}
	}
	s.resources[logicalID] = r
	s.order = append(s.order, logicalID)
	return Handle{LogicalID: logicalID}
}

// DependOn records an explicit DependsOn edge from the resource to each
// dependency.
func (s *Stack) DependOn(h Handle, deps ...Handle) {
	for _, dep := range deps {
		s.dependsOn[h.LogicalID] = append(s.dependsOn[h.LogicalID], dep.LogicalID)
	}
}

// AddParameter registers a template parameter.
func (s *Stack) AddParameter(name string, p groundwork.Parameter) {
	s.parameters[name] = p
}

// AddOutput registers a template output.
func (s *Stack) AddOutput(name string, o groundwork.Output) {
	s.outputs[name] = o
}

// Template renders the stack to a CloudFormation template. Duplicate logical
// IDs and DependsOn edges to unknown resources are reported as errors.
func (s *Stack) Template() (groundwork.Template, error) {
	tmpl := groundwork.Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Description:              s.description,
		Resources:                make(map[string]groundwork.ResourceDef, len(s.resources)),
	}

	if len(s.errs) > 0 {
		return tmpl, s.errs[0]
	}

	for id, deps := range s.dependsOn {
		for _, dep := range deps {
			if _, ok := s.resources[dep]; !ok {
				return tmpl, fmt.Errorf("resource %s depends on unknown resource %s", id, dep)
			}
		}
	}

	for _, id := range s.order {
		r := s.resources[id]
		props, err := serialize.Properties(r)
		if err != nil {
			return tmpl, fmt.Errorf("serializing %s: %w", id, err)
		}

		deps := append([]string(nil), s.dependsOn[id]...)
		sort.Strings(deps)

		tmpl.Resources[id] = groundwork.ResourceDef{
			Type:       r.ResourceType(),
			Properties: props,
			DependsOn:  deps,
		}
	}

	if len(s.parameters) > 0 {
		tmpl.Parameters = s.parameters
	}
	if len(s.outputs) > 0 {
		outputs := make(map[string]groundwork.Output, len(s.outputs))
		for name, o := range s.outputs {
			v, err := normalizeOutputValue(o.Value)
			if err != nil {
				return tmpl, fmt.Errorf("output %s: %w", name, err)
			}
			o.Value = v
			outputs[name] = o
		}
		tmpl.Outputs = outputs
	}

	return tmpl, nil
}

// normalizeOutputValue flattens intrinsic values so the template marshals
// identically to JSON and YAML.
func normalizeOutputValue(v any) (any, error) {
	if m, ok := v.(json.Marshaler); ok {
		data, err := m.MarshalJSON()
		if err != nil {
			return nil, err
		}
		var out any
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	return v, nil
}

// JSON renders the stack template as indented JSON.
func (s *Stack) JSON() ([]byte, error) {
	tmpl, err := s.Template()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(tmpl, "", "  ")
}

// YAML renders the stack template as YAML.
func (s *Stack) YAML() ([]byte, error) {
	tmpl, err := s.Template()
	if err != nil {
		return nil, err
	}

	// Round-trip through JSON so intrinsics and property maps render in
	// their CloudFormation form rather than as Go struct fields.
	data, err := json.Marshal(tmpl)
	if err != nil {
		return nil, err
	}
	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return yaml.Marshal(generic)
}

// Resources returns the logical IDs in insertion order.
func (s *Stack) Resources() []string {
	return append([]string(nil), s.order...)
}

// LogicalID converts a name like "nightly-backups" into CloudFormation
// logical id form ("NightlyBackups"). Characters outside [A-Za-z0-9] act
// as word separators and are dropped.
func LogicalID(name string) string {
	var b []byte
	upper := true
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
			if upper {
				c -= 'a' - 'A'
			}
			b = append(b, c)
			upper = false
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b = append(b, c)
			upper = false
		default:
			upper = true
		}
	}
	return string(b)
}
