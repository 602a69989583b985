package email

import (
	"fmt"
	"net/smtp"

	"github.com/example/sneaker-shop/internal/checkout"
)

// Service sends operator notifications via SMTP.
type Service struct {
	host string
	port string
	from string
}

func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
	}
}

// SendQuotationNotice tells the shop operator a new quotation came in.
func (s *Service) SendQuotationNotice(to string, snap checkout.Snapshot) error {
	shortID := snap.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	subject := fmt.Sprintf("New quotation %s - $%s", shortID, snap.Total.StringFixed(2))
	body := BuildQuotationNoticeBody(snap)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
