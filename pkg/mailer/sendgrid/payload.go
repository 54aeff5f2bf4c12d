package sendgrid

// Payload is the request body of the SendGrid v3 mail/send endpoint.
type Payload struct {
	From             Email              `json:"from"`
	ReplyTo          *Email             `json:"reply_to,omitempty"`
	ASM              *ASM               `json:"asm,omitempty"`
	MailSettings     *MailSettings      `json:"mail_settings,omitempty"`
	TrackingSettings *TrackingSettings  `json:"tracking_settings,omitempty"`
	Subject          string             `json:"subject,omitempty"`
	TemplateID       string             `json:"template_id,omitempty"`
	IPPoolName       string             `json:"ip_pool_name,omitempty"`
	Personalizations []*Personalization `json:"personalizations"`
	Content          []Content          `json:"content,omitempty"`
	Attachments      []Attachment       `json:"attachments,omitempty"`
	Categories       []string           `json:"categories,omitempty"`
}

// Email is a sender or recipient identity. Name is omitted when absent.
type Email struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Personalization groups recipients with their per-recipient data.
type Personalization struct {
	Headers             map[string]string `json:"headers,omitempty"`
	Substitutions       map[string]string `json:"substitutions,omitempty"`
	CustomArgs          map[string]string `json:"custom_args,omitempty"`
	DynamicTemplateData map[string]any    `json:"dynamic_template_data,omitempty"`
	SendAt              *int64            `json:"send_at,omitempty"`
	Subject             string            `json:"subject,omitempty"`
	To                  []Email           `json:"to,omitempty"`
	CC                  []Email           `json:"cc,omitempty"`
	BCC                 []Email           `json:"bcc,omitempty"`
}

// Content is one body part.
type Content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Attachment is a base64-encoded file.
type Attachment struct {
	Content     string `json:"content"`
	Type        string `json:"type,omitempty"`
	Filename    string `json:"filename"`
	Disposition string `json:"disposition,omitempty"`
	ContentID   string `json:"content_id,omitempty"`
}

// ASM is the unsubscribe group for the message.
type ASM struct {
	GroupsToDisplay []int `json:"groups_to_display,omitempty"`
	GroupID         int   `json:"group_id"`
}

// MailSettings holds message-level settings.
type MailSettings struct {
	SandboxMode *Setting `json:"sandbox_mode,omitempty"`
}

// TrackingSettings holds open, click and subscription tracking toggles.
type TrackingSettings struct {
	OpenTracking         *Setting `json:"open_tracking,omitempty"`
	ClickTracking        *Setting `json:"click_tracking,omitempty"`
	SubscriptionTracking *Setting `json:"subscription_tracking,omitempty"`
}

// Setting is an on/off toggle. Enable is always serialized.
type Setting struct {
	Enable bool `json:"enable"`
}

func newSetting(enable bool) *Setting {
	return &Setting{Enable: enable}
}
