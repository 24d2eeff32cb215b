package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     map[string]string
		expected string
	}{
		{
			name:     "no placeholders is a no-op",
			template: "plain text, no substitution",
			vars:     map[string]string{"name": "Ana"},
			expected: "plain text, no substitution",
		},
		{
			name:     "single placeholder",
			template: "hello {{name}}",
			vars:     map[string]string{"name": "Ana"},
			expected: "hello Ana",
		},
		{
			name:     "multiple placeholders",
			template: "{{name}} <{{email}}>",
			vars:     map[string]string{"name": "Ana", "email": "ana@example.com"},
			expected: "Ana <ana@example.com>",
		},
		{
			name:     "unknown key left verbatim",
			template: "hi {{x}}",
			vars:     map[string]string{},
			expected: "hi {{x}}",
		},
		{
			name:     "known and unknown keys mixed",
			template: "{{name}} says {{greeting}}",
			vars:     map[string]string{"name": "Ana"},
			expected: "Ana says {{greeting}}",
		},
		{
			name:     "repeated placeholder",
			template: "{{email}} / {{email}}",
			vars:     map[string]string{"email": "a@b.com"},
			expected: "a@b.com / a@b.com",
		},
		{
			name:     "resolved value with braces is not re-substituted",
			template: "{{a}}",
			vars:     map[string]string{"a": "{{b}}", "b": "nope"},
			expected: "{{b}}",
		},
		{
			name:     "empty template",
			template: "",
			vars:     map[string]string{"name": "Ana"},
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.template, tt.vars))
		})
	}
}

func TestRenderAll(t *testing.T) {
	vars := map[string]string{"email": "ana@example.com"}

	out := RenderAll([]string{"ops@example.com", "{{email}}"}, vars)
	assert.Equal(t, []string{"ops@example.com", "ana@example.com"}, out)

	assert.Nil(t, RenderAll(nil, vars))
	assert.Nil(t, RenderAll([]string{}, vars))
}
