// Package invocation turns an agent selection and raw form input into the
// request envelope the invoke endpoint expects.
package invocation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/agentmarket/internal/client/models"
)

var (
	ErrUnsupportedAgentType = errors.New("unsupported agent type")
	ErrMissingField         = errors.New("missing required field")
)

// FieldError reports a required field left empty.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s is required", e.Field) }

func (e *FieldError) Unwrap() error { return ErrMissingField }

// Input is raw form input keyed by field name. Values are trimmed before use.
type Input map[string]string

func (in Input) get(name string) string {
	return strings.TrimSpace(in[name])
}

// Field describes one form field of an agent type.
type Field struct {
	Name      string
	Label     string
	Required  bool
	Multiline bool
	// Code marks input that is shown with syntax highlighting.
	Code bool
}

var names = map[string]models.AgentType{
	"code reviewer":             models.AgentTypeCodeReviewer,
	"resume reviewer":           models.AgentTypeResumeReviewer,
	"interview prep assistant":  models.AgentTypeInterviewPrep,
	"writing assistant":         models.AgentTypeWritingAssistant,
	"technical troubleshooter":  models.AgentTypeTechnicalTroubleshooter,
	"technical_troubleshooting": models.AgentTypeTechnicalTroubleshooter,
}

var fields = map[models.AgentType][]Field{
	models.AgentTypeCodeReviewer: {
		{Name: "code", Label: "Code", Required: true, Multiline: true, Code: true},
		{Name: "language", Label: "Language"},
		{Name: "context", Label: "Context"},
	},
	models.AgentTypeResumeReviewer: {
		{Name: "resume_text", Label: "Resume", Required: true, Multiline: true},
		{Name: "context", Label: "Context"},
	},
	models.AgentTypeInterviewPrep: {
		{Name: "topic", Label: "Topic", Required: true},
		{Name: "experience_level", Label: "Experience level"},
		{Name: "company", Label: "Company"},
		{Name: "focus_areas", Label: "Focus areas"},
		{Name: "context", Label: "Context"},
	},
	models.AgentTypeWritingAssistant: {
		{Name: "text", Label: "Text", Required: true, Multiline: true},
		{Name: "style", Label: "Style"},
		{Name: "tone", Label: "Tone"},
		{Name: "target_audience", Label: "Target audience"},
		{Name: "context", Label: "Context"},
	},
	models.AgentTypeTechnicalTroubleshooter: {
		{Name: "problem", Label: "Problem", Required: true, Multiline: true},
		{Name: "system_info", Label: "System info"},
		{Name: "error_messages", Label: "Error messages", Multiline: true},
		{Name: "attempted_solutions", Label: "Attempted solutions"},
		{Name: "context", Label: "Context"},
	},
}

// placeholders fill the context field when nothing else provides one.
var placeholders = map[models.AgentType]string{
	models.AgentTypeCodeReviewer:            "Code review request",
	models.AgentTypeResumeReviewer:          "Resume review request",
	models.AgentTypeInterviewPrep:           "Technical interview preparation",
	models.AgentTypeWritingAssistant:        "Writing assistance request",
	models.AgentTypeTechnicalTroubleshooter: "Technical troubleshooting request",
}

// Resolve maps an agent display name, or a type tag, to its type tag.
func Resolve(agentName string) (models.AgentType, error) {
	key := strings.ToLower(strings.TrimSpace(agentName))
	if t, ok := names[key]; ok {
		return t, nil
	}
	if _, ok := fields[models.AgentType(key)]; ok {
		return models.AgentType(key), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedAgentType, agentName)
}

// Fields lists the form fields of the agent's type.
func Fields(agentName string) ([]Field, error) {
	t, err := Resolve(agentName)
	if err != nil {
		return nil, err
	}
	return append([]Field(nil), fields[t]...), nil
}

// Build produces the envelope for agentName with exactly one payload set.
// Nothing is built for an unknown agent or a missing required field.
func Build(agentName string, in Input) (models.InvocationRequest, error) {
	t, err := Resolve(agentName)
	if err != nil {
		return models.InvocationRequest{}, err
	}
	for _, f := range fields[t] {
		if f.Required && in.get(f.Name) == "" {
			return models.InvocationRequest{}, &FieldError{Field: f.Name}
		}
	}

	ctx := in.get("context")
	var p models.Payload
	switch t {
	case models.AgentTypeCodeReviewer:
		p = models.CodeReview{
			Code:     in.get("code"),
			Language: in.get("language"),
			Context:  orPlaceholder(ctx, t),
		}
	case models.AgentTypeResumeReviewer:
		p = models.ResumeReview{
			ResumeText: in.get("resume_text"),
			Context:    orPlaceholder(ctx, t),
		}
	case models.AgentTypeInterviewPrep:
		extra := labeled(in, "company", "Company", "Not specified", "focus_areas", "Focus Areas", "General")
		p = models.InterviewPrep{
			Topic:           in.get("topic"),
			ExperienceLevel: in.get("experience_level"),
			Context:         orPlaceholder(join(extra, ctx), t),
		}
	case models.AgentTypeWritingAssistant:
		extra := labeled(in, "tone", "Tone", "Not specified", "target_audience", "Target Audience", "General")
		p = models.WritingAssistance{
			Text:    in.get("text"),
			Style:   in.get("style"),
			Context: orPlaceholder(join(extra, ctx), t),
		}
	case models.AgentTypeTechnicalTroubleshooter:
		extra := labeled(in, "error_messages", "Error Messages", "None", "attempted_solutions", "Attempted Solutions", "None")
		p = models.TechnicalTroubleshooting{
			Problem:    in.get("problem"),
			SystemInfo: join(in.get("system_info"), extra),
			Context:    orPlaceholder(ctx, t),
		}
	}
	return models.Wrap(p), nil
}

func orPlaceholder(s string, t models.AgentType) string {
	if s != "" {
		return s
	}
	return placeholders[t]
}

// labeled renders two optional detail fields as "Label: value" lines. It
// returns "" if both are empty.
func labeled(in Input, k1, l1, d1, k2, l2, d2 string) string {
	v1, v2 := in.get(k1), in.get(k2)
	if v1 == "" && v2 == "" {
		return ""
	}
	if v1 == "" {
		v1 = d1
	}
	if v2 == "" {
		v2 = d2
	}
	return l1 + ": " + v1 + "\n" + l2 + ": " + v2
}

func join(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "\n\n" + b
	}
}
