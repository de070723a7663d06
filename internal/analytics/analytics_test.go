package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"classtrack/internal/classroom"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   float64
	}{
		{name: "no sessions", counts: Counts{Sessions: 0, Students: 30, Marked: 0}, want: 0},
		{name: "no students", counts: Counts{Sessions: 5, Students: 0, Marked: 0}, want: 0},
		{name: "empty class", counts: Counts{}, want: 0},
		{name: "full attendance", counts: Counts{Sessions: 4, Students: 10, Marked: 40}, want: 100},
		{name: "three of four slots", counts: Counts{Sessions: 2, Students: 2, Marked: 3}, want: 75},
		{name: "rounds to two decimals", counts: Counts{Sessions: 3, Students: 1, Marked: 1}, want: 33.33},
		{name: "rounds up", counts: Counts{Sessions: 3, Students: 1, Marked: 2}, want: 66.67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(tt.counts)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

type fakeReader struct {
	counts  map[string]Counts
	history []HistoryRow
}

func (f *fakeReader) ClassCounts(_ context.Context, classID string) (Counts, error) {
	return f.counts[classID], nil
}

func (f *fakeReader) StudentHistory(context.Context, string) ([]HistoryRow, error) {
	return f.history, nil
}

type fakeClasses struct {
	byTeacher map[string][]classroom.Class
}

func (f *fakeClasses) FindByID(_ context.Context, id string) (classroom.Class, error) {
	for _, classes := range f.byTeacher {
		for _, cls := range classes {
			if cls.ID == id {
				return cls, nil
			}
		}
	}
	return classroom.Class{}, classroom.ErrNotFound
}

func (f *fakeClasses) ListByTeacher(_ context.Context, teacherID string) ([]classroom.Class, error) {
	return f.byTeacher[teacherID], nil
}

func TestClassAnalytics(t *testing.T) {
	reader := &fakeReader{counts: map[string]Counts{
		"c1": {Sessions: 2, Students: 2, Marked: 3},
		"c2": {Sessions: 0, Students: 25, Marked: 0},
	}}
	classes := &fakeClasses{byTeacher: map[string][]classroom.Class{
		"t1": {
			{ID: "c1", Name: "Algebra", Subject: "Math"},
			{ID: "c2", Name: "Mechanics", Subject: "Physics"},
		},
	}}
	svc := NewService(reader, classes, nil, 0)

	summaries, err := svc.ClassAnalytics(context.Background(), "t1")
	assert.NoError(t, err)
	assert.Len(t, summaries, 2)

	assert.Equal(t, "Algebra", summaries[0].Name)
	assert.Equal(t, 2, summaries[0].TotalSessions)
	assert.Equal(t, 2, summaries[0].TotalStudents)
	assert.Equal(t, 3, summaries[0].AttendanceMarked)
	assert.Equal(t, 75.0, summaries[0].AttendancePercentage)

	// Zero denominator never divides.
	assert.Equal(t, 0.0, summaries[1].AttendancePercentage)
}

func TestClassAnalyticsNoClasses(t *testing.T) {
	svc := NewService(&fakeReader{}, &fakeClasses{}, nil, 0)
	summaries, err := svc.ClassAnalytics(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Empty(t, summaries)
	assert.NotNil(t, summaries)
}

func TestStudentHistoryPassthrough(t *testing.T) {
	reader := &fakeReader{history: []HistoryRow{
		{SessionID: "s3", Status: StatusAbsent},
		{SessionID: "s2", Status: StatusPresent},
		{SessionID: "s1", Status: StatusPresent},
	}}
	svc := NewService(reader, &fakeClasses{}, nil, 0)

	rows, err := svc.StudentHistory(context.Background(), "student-1")
	assert.NoError(t, err)
	assert.Len(t, rows, 3)

	var present int
	for _, row := range rows {
		if row.Status == StatusPresent {
			present++
		}
	}
	assert.Equal(t, 2, present)
}
