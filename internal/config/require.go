package config

import "log"

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// MustValid stops the process when the configuration cannot start a server.
func (c Config) MustValid() {
	MustNonEmptyBytes(c.JWTSecret, "JWT_SECRET")

	switch c.StoreDriver {
	case StorePostgres:
		MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	case StoreMongo:
		MustNonEmpty(c.MongoURI, "MONGO_URI")
	case StoreSQLite:
	default:
		log.Fatalf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.MailTransport {
	case MailSMTP:
		MustNonEmpty(c.SMTP.User, "SMTP_USER")
	case MailQueue:
		MustNonEmpty(c.RabbitMQURL, "RABBITMQ_URL")
	case MailLog:
	default:
		log.Fatalf("unknown MAIL_TRANSPORT %q", c.MailTransport)
	}
}
