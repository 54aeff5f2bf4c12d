// Package msgfile loads outbound messages from YAML files.
//
// A file holds one or more YAML documents separated by "---"; each document
// becomes one mailer.Message. Fields missing from a document are filled from
// Defaults. Values that YAML leaves untyped, send_at and ip_pool_name, are
// checked here and rejected with the sendgrid validation errors.
//
//	from: Support <support@example.com>
//	to: [alice@example.com]
//	subject: Your invoice
//	body: See attached.
//	send_at: 1735689600
//	attachments:
//	  - path: invoice.pdf
package msgfile
