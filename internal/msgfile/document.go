package msgfile

// Document is the YAML shape of one message.
type Document struct {
	Headers             map[string]string `yaml:"headers"`
	CustomArgs          map[string]string `yaml:"custom_args"`
	Substitutions       map[string]string `yaml:"substitutions"`
	DynamicTemplateData map[string]any    `yaml:"dynamic_template_data"`
	ASM                 *ASM              `yaml:"asm"`

	// Decoded untyped and validated in Message.
	IPPoolName any `yaml:"ip_pool_name"`
	SendAt     any `yaml:"send_at"`

	From           string `yaml:"from"`
	Subject        string `yaml:"subject"`
	Body           string `yaml:"body"`
	HTML           string `yaml:"html"`
	ContentSubtype string `yaml:"content_subtype"`
	TemplateID     string `yaml:"template_id"`

	To          []string     `yaml:"to"`
	CC          []string     `yaml:"cc"`
	BCC         []string     `yaml:"bcc"`
	ReplyTo     []string     `yaml:"reply_to"`
	Categories  []string     `yaml:"categories"`
	Attachments []Attachment `yaml:"attachments"`
}

// ASM is the unsubscribe group of a message.
type ASM struct {
	GroupID         int   `yaml:"group_id"`
	GroupsToDisplay []int `yaml:"groups_to_display"`
}

// Attachment references a file on disk (Path) or carries inline Content.
// Inline content is text unless Encoding is "base64".
type Attachment struct {
	Path        string `yaml:"path"`
	Filename    string `yaml:"filename"`
	ContentType string `yaml:"content_type"`
	Content     string `yaml:"content"`
	Encoding    string `yaml:"encoding"`
	ContentID   string `yaml:"content_id"`
}

// Defaults are applied to every loaded message that leaves the field empty.
// Header and custom arg maps are merged key by key.
type Defaults struct {
	Headers    map[string]string `mapstructure:"headers"`
	CustomArgs map[string]string `mapstructure:"custom_args"`
	From       string            `mapstructure:"from"`
	ReplyTo    []string          `mapstructure:"reply_to"`
	Categories []string          `mapstructure:"categories"`
}

func (d Defaults) document() Document {
	return Document{
		Headers:    d.Headers,
		CustomArgs: d.CustomArgs,
		From:       d.From,
		ReplyTo:    d.ReplyTo,
		Categories: d.Categories,
	}
}
