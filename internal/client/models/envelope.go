package models

// AgentType is the machine-readable tag the invoke endpoint dispatches on.
type AgentType string

const (
	AgentTypeCodeReviewer            AgentType = "code_reviewer"
	AgentTypeResumeReviewer          AgentType = "resume_reviewer"
	AgentTypeInterviewPrep           AgentType = "interview_prep"
	AgentTypeWritingAssistant        AgentType = "writing_assistant"
	AgentTypeTechnicalTroubleshooter AgentType = "technical_troubleshooter"
)

// Payload is implemented by every task-specific invocation payload.
type Payload interface {
	GetType() AgentType
}

// CodeReview asks for feedback on a piece of code.
type CodeReview struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
	Context  string `json:"context,omitempty"`
}

func (CodeReview) GetType() AgentType { return AgentTypeCodeReviewer }

// ResumeReview asks for feedback on a resume.
type ResumeReview struct {
	ResumeText string `json:"resume_text"`
	Context    string `json:"context,omitempty"`
}

func (ResumeReview) GetType() AgentType { return AgentTypeResumeReviewer }

// InterviewPrep asks for interview questions on a topic.
type InterviewPrep struct {
	Topic           string `json:"topic"`
	ExperienceLevel string `json:"experience_level,omitempty"`
	Context         string `json:"context,omitempty"`
}

func (InterviewPrep) GetType() AgentType { return AgentTypeInterviewPrep }

// WritingAssistance asks for improvements to a text.
type WritingAssistance struct {
	Text    string `json:"text"`
	Style   string `json:"style,omitempty"`
	Context string `json:"context,omitempty"`
}

func (WritingAssistance) GetType() AgentType { return AgentTypeWritingAssistant }

// TechnicalTroubleshooting asks for help with a technical problem.
type TechnicalTroubleshooting struct {
	Problem    string `json:"problem"`
	SystemInfo string `json:"system_info,omitempty"`
	Context    string `json:"context,omitempty"`
}

func (TechnicalTroubleshooting) GetType() AgentType { return AgentTypeTechnicalTroubleshooter }

// InvocationRequest is the envelope sent to POST /agents/invoke/{id}. Exactly
// one payload field is set; the others are omitted from the JSON entirely.
type InvocationRequest struct {
	AgentType                AgentType                 `json:"agent_type"`
	CodeReview               *CodeReview               `json:"code_review,omitempty"`
	ResumeReview             *ResumeReview             `json:"resume_review,omitempty"`
	InterviewPrep            *InterviewPrep            `json:"interview_prep,omitempty"`
	WritingAssistant         *WritingAssistance        `json:"writing_assistant,omitempty"`
	TechnicalTroubleshooting *TechnicalTroubleshooting `json:"technical_troubleshooting,omitempty"`
}

// Wrap builds the envelope for p, tagging it with p's type.
func Wrap(p Payload) InvocationRequest {
	req := InvocationRequest{AgentType: p.GetType()}
	switch v := p.(type) {
	case CodeReview:
		req.CodeReview = &v
	case ResumeReview:
		req.ResumeReview = &v
	case InterviewPrep:
		req.InterviewPrep = &v
	case WritingAssistance:
		req.WritingAssistant = &v
	case TechnicalTroubleshooting:
		req.TechnicalTroubleshooting = &v
	}
	return req
}

// Unwrap returns the populated payload, or nil if none is set.
func (r InvocationRequest) Unwrap() Payload {
	switch {
	case r.CodeReview != nil:
		return *r.CodeReview
	case r.ResumeReview != nil:
		return *r.ResumeReview
	case r.InterviewPrep != nil:
		return *r.InterviewPrep
	case r.WritingAssistant != nil:
		return *r.WritingAssistant
	case r.TechnicalTroubleshooting != nil:
		return *r.TechnicalTroubleshooting
	default:
		return nil
	}
}
