package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"shiksha-loan-backend/internal/domain/notification"
)

type message struct {
	subject *template.Template
	body    *template.Template
}

// Renderer turns a notification into an email subject and HTML body.
type Renderer struct {
	byKind map[notification.Kind]message
}

var layouts = map[notification.Kind][2]string{
	notification.KindApproved: {
		`Your education loan {{.loan_id}} is approved`,
		`<p>Dear {{.name}},</p>
<p>Your loan application <b>{{.loan_id}}</b> for INR {{.amount}} has been approved.
Your repayment schedule is now available in your dashboard.</p>`,
	},
	notification.KindRejected: {
		`Update on your loan application {{.loan_id}}`,
		`<p>Dear {{.name}},</p>
<p>We regret to inform you that your loan application <b>{{.loan_id}}</b> was not approved.</p>`,
	},
	notification.KindReminder: {
		`EMI of INR {{.amount}} due on {{.due_date}}`,
		`<p>Dear {{.name}},</p>
<p>This is a reminder that your EMI of INR {{.amount}} for loan <b>{{.loan_id}}</b> is due on {{.due_date}}.</p>`,
	},
	notification.KindOverdue: {
		`EMI overdue for loan {{.loan_id}}`,
		`<p>Dear {{.name}},</p>
<p>Your EMI of INR {{.amount}} for loan <b>{{.loan_id}}</b>, due on {{.due_date}}, is overdue.
A late fee of INR {{.late_fee}} has been applied.</p>`,
	},
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{byKind: make(map[notification.Kind]message, len(layouts))}
	for kind, l := range layouts {
		subj, err := template.New(string(kind) + ".subject").Option("missingkey=zero").Parse(l[0])
		if err != nil {
			return nil, fmt.Errorf("parse %s subject: %w", kind, err)
		}
		body, err := template.New(string(kind) + ".body").Option("missingkey=zero").Parse(l[1])
		if err != nil {
			return nil, fmt.Errorf("parse %s body: %w", kind, err)
		}
		r.byKind[kind] = message{subject: subj, body: body}
	}
	return r, nil
}

func (r *Renderer) Render(n notification.Notification) (subject, body string, err error) {
	m, ok := r.byKind[n.Kind]
	if !ok {
		return "", "", fmt.Errorf("no template for kind %q", n.Kind)
	}
	var s, b bytes.Buffer
	if err := m.subject.Execute(&s, n.Params); err != nil {
		return "", "", err
	}
	if err := m.body.Execute(&b, n.Params); err != nil {
		return "", "", err
	}
	return s.String(), b.String(), nil
}
