package mailer

// Content subtypes recognised on Message.ContentSubtype.
const (
	SubtypePlain = "plain"
	SubtypeHTML  = "html"
)

// MIME types used for body parts.
const (
	MIMETextPlain = "text/plain"
	MIMETextHTML  = "text/html"
)

// Message is a provider-agnostic outbound e-mail.
// Optional fields are absent when nil or empty. Providers never modify a
// Message except for Delivery, which the Mailer fills in after a send.
type Message struct {
	Headers             map[string]string // Extra headers; "Reply-To" is handled specially by providers
	CustomArgs          map[string]string // Provider-side custom arguments
	Substitutions       map[string]string // Template substitutions, used only with TemplateID
	DynamicTemplateData map[string]any    // Dynamic template data, used only with TemplateID
	ASM                 *ASM              // Subscription management group
	IPPoolName          *string           // Delivery IP pool
	SendAt              *int64            // Scheduled send time, epoch seconds

	From           string // Sender address, "Name <email>" or bare email
	Subject        string
	Body           string // Primary body; plain text unless ContentSubtype is "html"
	ContentSubtype string // "plain" (default) or "html"
	TemplateID     string // Provider template id

	To           []string
	CC           []string
	BCC          []string
	ReplyTo      []string      // Explicit reply-to; a single address is a one-element list
	Alternatives []Alternative // Alternative renderings of Body
	Attachments  []Attachment
	Categories   []string

	Delivery Delivery // Written after a successful send
}

// Alternative is an alternative rendering of the message body.
type Alternative struct {
	Content  string
	MIMEType string
}

// ASM describes an unsubscribe group. A zero GroupID means no group.
type ASM struct {
	GroupID         int
	GroupsToDisplay []int
}

// Delivery holds the provider's answer for a sent message.
type Delivery struct {
	MessageID  string // Provider-assigned message id, if returned
	StatusCode int
}

// IsHTML reports whether the primary body is HTML.
func (m *Message) IsHTML() bool {
	return m.ContentSubtype == SubtypeHTML
}

// HasAlternatives reports whether the message carries alternative renderings.
func (m *Message) HasAlternatives() bool {
	return len(m.Alternatives) > 0
}

// AttachAlternative adds an alternative rendering of the body.
func (m *Message) AttachAlternative(content, mimeType string) {
	m.Alternatives = append(m.Alternatives, Alternative{Content: content, MIMEType: mimeType})
}

// Attach adds an attachment.
func (m *Message) Attach(a Attachment) {
	if a != nil {
		m.Attachments = append(m.Attachments, a)
	}
}

// Recipients returns all To, CC and BCC addresses in that order.
func (m *Message) Recipients() []string {
	all := make([]string, 0, len(m.To)+len(m.CC)+len(m.BCC))
	all = append(all, m.To...)
	all = append(all, m.CC...)
	return append(all, m.BCC...)
}

// String returns a pointer to s, for optional string fields.
func String(s string) *string {
	return &s
}

// Int64 returns a pointer to n, for optional integer fields.
func Int64(n int64) *int64 {
	return &n
}
