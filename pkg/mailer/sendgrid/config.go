package sendgrid

// DefaultHost is the SendGrid API base URL.
const DefaultHost = "https://api.sendgrid.com"

// Config holds SendGrid provider configuration.
// Field tags match the keys read by the configuration loader.
type Config struct {
	APIKey string `mapstructure:"api_key"`
	Host   string `mapstructure:"host"`

	// SandboxMode makes SendGrid accept messages without delivering them.
	SandboxMode          bool `mapstructure:"sandbox_mode"`
	TrackOpens           bool `mapstructure:"track_email_opens"`
	TrackClicks          bool `mapstructure:"track_email_clicks"`
	SubscriptionTracking bool `mapstructure:"subscription_enable"`
}

// DefaultConfig returns a Config with open and click tracking on,
// subscription tracking and sandbox mode off.
func DefaultConfig() Config {
	return Config{
		Host:        DefaultHost,
		TrackOpens:  true,
		TrackClicks: true,
	}
}

// SandboxInDebug resolves sandbox mode from the application debug flag:
// sandbox is on only when debugging and sandboxInDebug allows it.
func SandboxInDebug(debug, sandboxInDebug bool) bool {
	return debug && sandboxInDebug
}
