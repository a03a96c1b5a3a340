package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)

func validPayload() TaskPayload {
	due := fixedNow.Add(24 * time.Hour)
	return TaskPayload{
		Title:       "Write report",
		Description: "Draft design doc",
		Priority:    PriorityHigh,
		Status:      StatusOpen,
		DueDate:     &due,
	}
}

func violationFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %T", err)
	fields := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		fields = append(fields, v.Field)
	}
	return fields
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestValidateTaskPayload_Valid(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateTaskPayload(validPayload(), fixedNow))

	p := validPayload()
	p.DueDate = nil
	assert.NoError(t, ValidateTaskPayload(p, fixedNow), "dueDate is optional")
}

func TestValidateTaskPayload_LengthBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(p *TaskPayload)
		wantField string
	}{
		{"title length 0", func(p *TaskPayload) { p.Title = "" }, FieldTitle},
		{"title length 1", func(p *TaskPayload) { p.Title = "a" }, ""},
		{"title length 255", func(p *TaskPayload) { p.Title = strings.Repeat("a", 255) }, ""},
		{"title length 256", func(p *TaskPayload) { p.Title = strings.Repeat("a", 256) }, FieldTitle},
		{"title counts characters not bytes", func(p *TaskPayload) { p.Title = strings.Repeat("é", 255) }, ""},
		{"description length 0", func(p *TaskPayload) { p.Description = "" }, FieldDescription},
		{"description length 1", func(p *TaskPayload) { p.Description = "d" }, ""},
		{"description length 1000", func(p *TaskPayload) { p.Description = strings.Repeat("d", 1000) }, ""},
		{"description length 1001", func(p *TaskPayload) { p.Description = strings.Repeat("d", 1001) }, FieldDescription},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validPayload()
			tc.mutate(&p)
			err := ValidateTaskPayload(p, fixedNow)
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Equal(t, []string{tc.wantField}, violationFields(t, err))
		})
	}
}

func TestValidateTaskPayload_Enumerations(t *testing.T) {
	t.Parallel()

	p := validPayload()
	p.Priority = "URGENT"
	p.Status = "DONE"

	err := ValidateTaskPayload(p, fixedNow)
	require.Error(t, err)
	assert.ElementsMatch(t, []string{FieldPriority, FieldStatus}, violationFields(t, err))

	p = validPayload()
	p.Priority = ""
	p.Status = ""
	err = ValidateTaskPayload(p, fixedNow)
	require.Error(t, err)
	assert.ElementsMatch(t, []string{FieldPriority, FieldStatus}, violationFields(t, err))
}

func TestValidateTaskPayload_Times(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(p *TaskPayload)
		wantField string
	}{
		{"dueDate equal to now", func(p *TaskPayload) { p.DueDate = timePtr(fixedNow) }, FieldDueDate},
		{"dueDate in the past", func(p *TaskPayload) { p.DueDate = timePtr(fixedNow.Add(-time.Hour)) }, FieldDueDate},
		{"dueDate one day ahead", func(p *TaskPayload) { p.DueDate = timePtr(fixedNow.AddDate(0, 0, 1)) }, ""},
		{"resolvedAt equal to now", func(p *TaskPayload) { p.ResolvedAt = timePtr(fixedNow) }, FieldResolvedAt},
		{"resolvedAt in the future", func(p *TaskPayload) { p.ResolvedAt = timePtr(fixedNow.Add(time.Minute)) }, ""},
		{"createdAt in the future", func(p *TaskPayload) { p.CreatedAt = timePtr(fixedNow.Add(time.Second)) }, FieldCreatedAt},
		{"createdAt equal to now", func(p *TaskPayload) { p.CreatedAt = timePtr(fixedNow) }, ""},
		{"createdAt in the past", func(p *TaskPayload) { p.CreatedAt = timePtr(fixedNow.AddDate(-1, 0, 0)) }, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validPayload()
			tc.mutate(&p)
			err := ValidateTaskPayload(p, fixedNow)
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, []string{tc.wantField}, violationFields(t, err))
		})
	}
}

func TestValidateTaskPayload_CollectsAllViolations(t *testing.T) {
	t.Parallel()

	err := ValidateTaskPayload(TaskPayload{DueDate: timePtr(fixedNow)}, fixedNow)
	require.Error(t, err)
	assert.Equal(t,
		[]string{FieldTitle, FieldDescription, FieldPriority, FieldStatus, FieldDueDate},
		violationFields(t, err))
	assert.Contains(t, err.Error(), "title is required")
}

func TestValidateTaskPayload_Deterministic(t *testing.T) {
	t.Parallel()

	p := validPayload()
	p.Title = ""
	first := ValidateTaskPayload(p, fixedNow)
	second := ValidateTaskPayload(p, fixedNow)
	assert.Equal(t, first, second)
}
