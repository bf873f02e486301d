package mail

// SMTPConfig holds the outbound mail transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

// SenderOptions are the identity and links rendered into every message.
type SenderOptions struct {
	From         string
	FrontendURL  string
	CalendlyLink string
	Phone        string
}

type templateData struct {
	Name         string
	Subject      string
	Message      string
	Company      string
	Role         string
	LeadEmail    string
	FrontendURL  string
	CalendlyLink string
	Phone        string
	LoginLink    string
}
