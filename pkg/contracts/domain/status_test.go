package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalStatus(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   string
	}{
		{name: "already canonical", status: "late", want: "late"},
		{name: "traditional late", status: "遲到", want: "late"},
		{name: "simplified late", status: "迟到", want: "late"},
		{name: "traditional absent", status: "未進公司", want: "absent"},
		{name: "simplified absent", status: "未进公司", want: "absent"},
		{name: "combined with label delimiter", status: "遲到、早退", want: "late,early-leave"},
		{name: "combined canonical", status: "late,holiday", want: "late,holiday"},
		{name: "unknown token passes through", status: "加班", want: "加班"},
		{name: "empty", status: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalStatus(tt.status))
		})
	}
}

func TestStatusContains(t *testing.T) {
	assert.True(t, StatusContains("late,holiday", StatusLate))
	assert.True(t, StatusContains("假日、遲到", StatusLate))
	assert.True(t, StatusContains("假日、遲到", StatusHoliday))
	assert.False(t, StatusContains("late,holiday", StatusEarlyLeave))
	assert.False(t, StatusContains("", StatusNormal))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "正常", StatusLabel(StatusNormal))
	assert.Equal(t, "遲到、早退、假日", StatusLabel("late,early-leave,holiday"))
	assert.Equal(t, "未進公司", StatusLabel("未进公司"))
}

func TestWeekdayInfo(t *testing.T) {
	tests := []struct {
		date        time.Time
		wantLabel   string
		wantWeekend bool
	}{
		{time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), "周一", false},
		{time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC), "周五", false},
		{time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC), "周六", true},
		{time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), "周日", true},
	}

	for _, tt := range tests {
		label, weekend := WeekdayInfo(tt.date)
		assert.Equal(t, tt.wantLabel, label, tt.date.String())
		assert.Equal(t, tt.wantWeekend, weekend, tt.date.String())
	}
}

func TestIdentityMapResolve(t *testing.T) {
	m := IdentityMap{"1001": "Alice"}
	assert.Equal(t, "Alice", m.Resolve("1001"))
	assert.Equal(t, "1002", m.Resolve("1002"))
}
