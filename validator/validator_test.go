package validator

import (
	"strings"
	"testing"

	"notes-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_CreateNote(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		req       models.CreateNoteRequest
		wantError bool
		errorMsg  string
	}{
		{
			name:      "Valid note request",
			req:       models.CreateNoteRequest{Title: "Groceries", Body: "milk, eggs"},
			wantError: false,
		},
		{
			name:      "Empty title is allowed (defaults later)",
			req:       models.CreateNoteRequest{Title: "", Body: ""},
			wantError: false,
		},
		{
			name:      "Unicode title",
			req:       models.CreateNoteRequest{Title: "Einkäufe 🛒", Body: "Milch"},
			wantError: false,
		},
		{
			name:      "Multiline body is fine",
			req:       models.CreateNoteRequest{Title: "List", Body: "milk\neggs\n"},
			wantError: false,
		},
		{
			name:      "Title too long",
			req:       models.CreateNoteRequest{Title: strings.Repeat("a", 256)},
			wantError: true,
			errorMsg:  "title must be at most 255 characters",
		},
		{
			name:      "Title with newline",
			req:       models.CreateNoteRequest{Title: "two\nlines"},
			wantError: true,
			errorMsg:  "title must be valid UTF-8 on a single line",
		},
		{
			name:      "Title with invalid UTF-8",
			req:       models.CreateNoteRequest{Title: "bad \xff byte"},
			wantError: true,
			errorMsg:  "title must be valid UTF-8 on a single line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)

			var validationErrs ValidationErrors
			require.ErrorAs(t, err, &validationErrs)
			assert.Equal(t, "title", validationErrs[0].Field)
		})
	}
}

func TestValidator_UpdateNote(t *testing.T) {
	v := New()

	err := v.Validate(&models.UpdateNoteRequest{Title: "ok", Body: strings.Repeat("x", 1048577)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "body must be at most 1048576 characters")

	var validationErrs ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.LessOrEqual(t, len([]rune(validationErrs[0].Value)), 67)
}
