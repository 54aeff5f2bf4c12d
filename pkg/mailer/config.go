package mailer

// Config holds mailer configuration.
type Config struct {
	FallbackSubject string // Subject used when neither params nor frontmatter set one
	DefaultLayout   string // Layout used when TemplateParams.Layout is empty

	// FailSilently records delivery failures in the Result instead of
	// returning them. Message validation errors are always returned.
	FailSilently bool
}
