package testutil

// SentMail captures one dispatched email.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// MailRecorder implements mailer.Mailer and records every send.
type MailRecorder struct {
	Sent []SentMail
}

func (r *MailRecorder) Send(to, subject, body string) error {
	r.Sent = append(r.Sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}
