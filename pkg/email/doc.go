// Package email provides a provider-agnostic interface for sending
// transactional email, with a Postmark implementation for production and a
// filesystem sender for local development.
//
// The authentication services in this kit never talk to a provider directly:
// they depend on small purpose-built senders (such as MagicCodeMailer) that
// compose the generic EmailSender interface, so delivery stays swappable and
// fire-and-forget failures stay observable through logs only.
//
//	sender := email.MustNewPostmarkClient(cfg)
//	mailer := email.NewMagicCodeMailer(sender, "Acme")
//	_ = mailer.SendMagicCode(ctx, "user@example.com", "user@example.com", "XK42QZ", "https://acme.app")
package email
