package email

// Config holds email delivery configuration.
// Postmark tokens are optional so development environments can run with the
// filesystem sender instead. SenderEmail establishes the sender identity and
// SupportEmail the reply-to behavior for all outbound mail.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
}
