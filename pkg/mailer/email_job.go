package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template names a set of embedded templates; Data feeds them. Raw
// Subject/Text/HTML are used when no template is given.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "verification_code"
	Data     map[string]any `json:"data,omitempty"`
}
