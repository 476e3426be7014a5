package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// Invite carries everything needed to mail a login link to a list member
type Invite struct {
	RecipientName  string
	RecipientEmail string
	ListName       string
	LoginToken     string
}

// Notifier delivers invitations. Delivery failures never feed back into
// stored state; callers log and move on.
type Notifier interface {
	SendInvite(invite Invite) error
}

const inviteTemplate = `<html>
<body>
<p>Hi {{.RecipientName}},</p>
<p>You've been added to the <b>{{.ListName}}</b> gift list.</p>
<p><a href="{{.Link}}">Click here to log in</a>. Keep this link private,
it is your key to the site.</p>
<p>Questions? Contact {{.AdminEmail}}.</p>
</body>
</html>`

// SMTPMailer sends invites through an SMTP relay
type SMTPMailer struct {
	host       string
	port       string
	username   string
	password   string
	from       string
	adminEmail string
	siteRoot   string
	tmpl       *template.Template
}

// NewSMTPMailer creates an SMTPMailer
func NewSMTPMailer(host, port, username, password, from, adminEmail, siteRoot string) *SMTPMailer {
	return &SMTPMailer{
		host:       host,
		port:       port,
		username:   username,
		password:   password,
		from:       from,
		adminEmail: adminEmail,
		siteRoot:   siteRoot,
		tmpl:       template.Must(template.New("invite").Parse(inviteTemplate)),
	}
}

// SendInvite renders and sends the invitation email
func (m *SMTPMailer) SendInvite(invite Invite) error {
	var body bytes.Buffer
	err := m.tmpl.Execute(&body, struct {
		RecipientName string
		ListName      string
		Link          string
		AdminEmail    string
	}{
		RecipientName: invite.RecipientName,
		ListName:      invite.ListName,
		Link:          fmt.Sprintf("%slogin/%s", m.siteRoot, invite.LoginToken),
		AdminEmail:    m.adminEmail,
	})
	if err != nil {
		return fmt.Errorf("failed to render invite email: %w", err)
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s <%s>\r\n", invite.RecipientName, invite.RecipientEmail)
	fmt.Fprintf(&msg, "Subject: You've been invited to the %s wishlist!\r\n", invite.ListName)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{invite.RecipientEmail}, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send invite email: %w", err)
	}

	return nil
}

// NoopNotifier drops invites. Used when no SMTP relay is configured.
type NoopNotifier struct{}

// SendInvite does nothing
func (NoopNotifier) SendInvite(Invite) error {
	return nil
}
