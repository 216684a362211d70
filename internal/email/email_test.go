package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplates(t *testing.T) {
	tm, err := NewDefaultTemplateManager()
	require.NoError(t, err)

	for _, name := range []string{
		TemplateWelcome, TemplateProposalSent, TemplateProposalResponded,
		TemplateInterviewProposed, TemplateInterviewScheduled,
	} {
		assert.NotNil(t, tm.GetTemplate(name), name)
	}

	html, err := tm.Render(TemplateInterviewProposed, TemplateData{
		"InternName":  "Asha",
		"CompanyName": "Acme <Labs>",
		"Timezone":    "Asia/Kolkata",
		"Slots":       []string{"2024-01-01 10:30", "2024-01-01 11:00", "2024-01-01 11:30"},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Asha")
	assert.Contains(t, html, "Acme &lt;Labs&gt;")
	assert.Contains(t, html, "<li>2024-01-01 11:00</li>")

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)
}

func TestSMTPProvider_Validate(t *testing.T) {
	p := NewSMTPProvider(&SMTPConfig{Host: "smtp.example.com", Port: 587, FromEmail: "noreply@findtern.in"}, nil)
	assert.NoError(t, p.Validate())

	p = NewSMTPProvider(&SMTPConfig{Port: 587}, nil)
	assert.Error(t, p.Validate())

	p = NewSMTPProvider(&SMTPConfig{Host: "smtp.example.com", Port: 70000, FromEmail: "x@y.z"}, nil)
	assert.Error(t, p.Validate())

	// без рендерера шаблоны недоступны
	assert.Error(t, p.SendTemplate([]string{"a@b.c"}, "s", TemplateWelcome, nil))
}

func TestNoopProvider(t *testing.T) {
	p := NewNoopProvider()
	require.NoError(t, p.SendTemplate([]string{"a@b.c"}, "Hello", TemplateWelcome, nil))
	assert.Equal(t, 1, p.Count())
	assert.Equal(t, "Hello", p.Sent[0].Subject)
}
