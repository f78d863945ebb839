package email

import (
	"fmt"

	"marketplace_backend/platform/config"
)

// NewSender builds the configured mail transport. Unknown providers are
// rejected rather than silently dropped so a typo in deployment config
// never swallows mail.
func NewSender(cfg *config.Config) (Sender, error) {
	switch cfg.EmailProvider {
	case "smtp":
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom, cfg.EmailFromName), nil
	case "brevo":
		if cfg.BrevoAPIKey == "" {
			return nil, fmt.Errorf("BREVO_API_KEY is required for the brevo email provider")
		}
		return NewBrevoSender(cfg.BrevoAPIKey, cfg.EmailFrom, cfg.EmailFromName), nil
	case "noop", "":
		return NoopSender{}, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
	}
}
