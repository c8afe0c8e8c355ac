package modal

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalConfirmer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			name:  "lowercase y accepts",
			input: "y\n",
			want:  true,
		},
		{
			name:  "yes accepts",
			input: "yes\n",
			want:  true,
		},
		{
			name:  "uppercase Y accepts",
			input: "Y\n",
			want:  true,
		},
		{
			name:  "surrounding whitespace is ignored",
			input: "  yes  \n",
			want:  true,
		},
		{
			name:  "n declines",
			input: "n\n",
			want:  false,
		},
		{
			name:  "empty line declines",
			input: "\n",
			want:  false,
		},
		{
			name:  "arbitrary text declines",
			input: "sure\n",
			want:  false,
		},
		{
			name:  "closed input declines",
			input: "",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out strings.Builder
			confirmer := NewTerminalConfirmer(strings.NewReader(tt.input), &out)

			got := confirmer.Confirm(context.Background(), "Delete this course?")

			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Delete this course? [y/N]: ")
		})
	}
}
