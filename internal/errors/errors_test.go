package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewMissingColumnError("記錄時間"),
			want: "[MISSING_COLUMN] required column not found: 記錄時間",
		},
		{
			name: "with cause",
			err:  NewExportError("failed to save workbook", fmt.Errorf("disk full")),
			want: "[EXPORT_IO] failed to save workbook: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewUnreadableFileError("/tmp/log.csv", cause)

	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrTypeUnreadableFile, appErr.Type)
	assert.Equal(t, "/tmp/log.csv", appErr.Context["path"])
}

func TestIsType(t *testing.T) {
	err := NewNoValidTimestampsError(42)
	assert.True(t, IsType(err, ErrTypeNoValidTimestamps))
	assert.False(t, IsType(err, ErrTypeExport))
	assert.False(t, IsType(errors.New("plain"), ErrTypeExport))

	// Matching survives fmt.Errorf wrapping along the call path.
	wrapped := fmt.Errorf("loading session: %w", err)
	assert.True(t, IsType(wrapped, ErrTypeNoValidTimestamps))
	assert.False(t, IsType(wrapped, ErrTypeExport))
	assert.False(t, IsType(nil, ErrTypeExport))
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unreadable file maps to 422",
			err:        NewUnreadableFileError("x.csv", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "UNREADABLE_FILE",
		},
		{
			name:       "missing column maps to 422",
			err:        NewMissingColumnError("姓名"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "MISSING_COLUMN",
		},
		{
			name:       "export maps to 500",
			err:        NewExportError("save failed", nil),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "EXPORT_IO",
		},
		{
			name:       "not found maps to 404",
			err:        NewNotFoundError("analysis"),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "api error passes through",
			err:        ErrValidation("source_path", "required"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "unknown error hides internals",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}
}
