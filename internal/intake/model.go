package intake

import (
	"strings"
	"time"
)

// Flow distinguishes the two submission kinds sharing the pipeline.
type Flow string

const (
	// FlowBooking is the storefront booking form: requires a tool id,
	// dates are optional.
	FlowBooking Flow = "booking"
	// FlowLead is the lightweight lead form: requires dates, the tool is
	// optional.
	FlowLead Flow = "lead"
)

// Placeholder substitutes absent optional values in outbound messages and
// spreadsheet rows.
const Placeholder = "—"

// Submission is a validated rental request from either flow.
type Submission struct {
	Flow     Flow            `json:"flow"`
	Name     string          `json:"name"`
	Contact  string          `json:"contact"`
	ToolID   string          `json:"tool_id"`
	ToolName string          `json:"tool_name"`
	DateFrom string          `json:"date_from"`
	DateTo   string          `json:"date_to"`
	Notes    string          `json:"notes"`
	Addons   map[string]bool `json:"addons"`

	// Request metadata, filled by the handler.
	UserAgent string `json:"user_agent"`
	Referrer  string `json:"referrer"`
	PagePath  string `json:"page_path"`
	Timestamp string `json:"timestamp"`
	IP        string `json:"ip"`
}

// Normalize trims every string field, substitutes the placeholder for absent
// notes, defaults the timestamp, and checks the flow's required fields.
// Normalizing an already-normalized submission is a no-op.
func (s *Submission) Normalize(now time.Time) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Contact = strings.TrimSpace(s.Contact)
	s.ToolID = strings.TrimSpace(s.ToolID)
	s.ToolName = strings.TrimSpace(s.ToolName)
	s.DateFrom = strings.TrimSpace(s.DateFrom)
	s.DateTo = strings.TrimSpace(s.DateTo)
	s.Notes = strings.TrimSpace(s.Notes)
	s.UserAgent = strings.TrimSpace(s.UserAgent)
	s.Referrer = strings.TrimSpace(s.Referrer)
	s.PagePath = strings.TrimSpace(s.PagePath)
	s.Timestamp = strings.TrimSpace(s.Timestamp)
	s.IP = strings.TrimSpace(s.IP)

	if s.Notes == "" {
		s.Notes = Placeholder
	}
	if s.Timestamp == "" {
		s.Timestamp = now.UTC().Format(time.RFC3339)
	}
	if s.Addons == nil {
		s.Addons = map[string]bool{}
	}

	if s.Name == "" {
		return missingField("name")
	}
	if s.Contact == "" {
		return missingField("contact")
	}
	switch s.Flow {
	case FlowBooking:
		if s.ToolID == "" {
			return missingField("toolId")
		}
	case FlowLead:
		if s.DateFrom == "" {
			return missingField("startDate")
		}
		if s.DateTo == "" {
			return missingField("endDate")
		}
	}
	return nil
}

// CoerceAddons converts raw JSON addon values to booleans using JavaScript
// truthiness, which is what the storefront form has always sent.
func CoerceAddons(raw map[string]any) map[string]bool {
	addons := make(map[string]bool, len(raw))
	for key, value := range raw {
		addons[key] = truthy(value)
	}
	return addons
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0 && val == val // NaN is falsy
	default:
		return true
	}
}
