package notify

import (
	"bytes"
	"html/template"
	"net/url"
	"strings"
)

const (
	KindAdminApproved     = "admin_approved"
	KindAdminRejected     = "admin_rejected"
	KindPasswordReset     = "password_reset"
	KindApplicationStatus = "application_status"
)

var templates = template.Must(template.New("mail").Parse(`
{{define "admin_approved"}}<h3>Hello {{.Name}},</h3>
<p>Your admin access request for the NITC Job Portal has been <b>approved</b>.</p>
<p>Sign in with the following credentials:</p>
<p>Email: <b>{{.Email}}</b><br/>Temporary password: <b>{{.TempPassword}}</b></p>
<p>Please change this password after your first login.</p>{{end}}
{{define "admin_approved_existing"}}<h3>Hello {{.Name}},</h3>
<p>Your admin access request for the NITC Job Portal has been <b>approved</b>.</p>
<p>Your existing account ({{.Email}}) now has admin rights. Sign in as usual.</p>{{end}}
{{define "admin_rejected"}}<h3>Hello {{.Name}},</h3>
<p>We regret to inform you that your admin access request for the NITC Job Portal has been <b>rejected</b>.</p>{{end}}
{{define "password_reset"}}<h3>Hello {{.Name}},</h3>
<p>We received a request to reset your password.</p>
<p><a href="{{.Link}}">Reset your password</a></p>
<p>If you did not request this, you can ignore this email.</p>{{end}}
{{define "application_status"}}<h3>Hello {{.Name}},</h3>
<p>Your application for <b>{{.JobTitle}}</b> has been <b>{{.Status}}</b>.</p>{{end}}
`))

func render(name string, data any) string {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		// templates are static; a failure here is a programming error
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}

// AdminApproved announces approval. An empty tempPassword means an existing
// account was promoted and keeps its own credentials.
func AdminApproved(to, name, tempPassword string) Message {
	tmpl := "admin_approved"
	if tempPassword == "" {
		tmpl = "admin_approved_existing"
	}
	return Message{
		To:      to,
		Subject: "Your Admin Access Approved",
		Kind:    KindAdminApproved,
		HTML: render(tmpl, map[string]string{
			"Name":         name,
			"Email":        to,
			"TempPassword": tempPassword,
		}),
	}
}

func AdminRejected(to, name string) Message {
	return Message{
		To:      to,
		Subject: "Admin Request Rejected",
		Kind:    KindAdminRejected,
		HTML:    render("admin_rejected", map[string]string{"Name": name}),
	}
}

func PasswordReset(to, name, link string) Message {
	return Message{
		To:      to,
		Subject: "Password Reset Request - NITC Job Portal",
		Kind:    KindPasswordReset,
		HTML:    render("password_reset", map[string]string{"Name": name, "Link": link}),
	}
}

func ApplicationStatus(to, name, jobTitle, status string) Message {
	return Message{
		To:      to,
		Subject: "Application " + status + " - " + jobTitle,
		Kind:    KindApplicationStatus,
		HTML: render("application_status", map[string]string{
			"Name":     name,
			"JobTitle": jobTitle,
			"Status":   strings.ToLower(status),
		}),
	}
}

// ResetLink builds <clientURL>/reset-password?email=<escaped email>.
func ResetLink(clientURL, email string) string {
	return strings.TrimRight(clientURL, "/") + "/reset-password?email=" + url.QueryEscape(email)
}
