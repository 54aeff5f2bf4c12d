package resend

// Config holds Resend email provider configuration.
// Field tags match the keys read by the configuration loader.
type Config struct {
	APIKey      string `mapstructure:"api_key"`
	SenderEmail string `mapstructure:"from_email"`
	SenderName  string `mapstructure:"from_name"`
}
