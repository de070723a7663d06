package analytics

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"classtrack/internal/classroom"
)

// Reader is the aggregation surface; implemented by Repository.
type Reader interface {
	ClassCounts(ctx context.Context, classID string) (Counts, error)
	StudentHistory(ctx context.Context, studentID string) ([]HistoryRow, error)
}

// ClassDirectory lists and resolves classes; implemented by
// classroom.Repository.
type ClassDirectory interface {
	FindByID(ctx context.Context, classID string) (classroom.Class, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]classroom.Class, error)
}

// Service serves analytics, fronted by a short-lived Redis rollup cache.
// Reads are eventually-consistent snapshots: a concurrently accepted
// claim may not show until the cache entry rolls over or the worker
// refreshes it.
type Service struct {
	reader   Reader
	classes  ClassDirectory
	cache    *redis.Client
	cacheTTL time.Duration
}

// NewService creates a service. cache may be nil to always compute from
// the database.
func NewService(reader Reader, classes ClassDirectory, cache *redis.Client, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &Service{reader: reader, classes: classes, cache: cache, cacheTTL: cacheTTL}
}

// ClassAnalytics returns one summary per class owned by the teacher, in
// class creation order.
func (s *Service) ClassAnalytics(ctx context.Context, teacherID string) ([]ClassSummary, error) {
	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	summaries := make([]ClassSummary, 0, len(classes))
	for _, cls := range classes {
		sum, err := s.classSummary(ctx, cls)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

// StudentHistory returns the student's per-session Present/Absent rows,
// most recent first.
func (s *Service) StudentHistory(ctx context.Context, studentID string) ([]HistoryRow, error) {
	return s.reader.StudentHistory(ctx, studentID)
}

// RefreshClass recomputes a class summary and rewrites its cache entry.
// The worker calls this when a claim for the class is accepted.
func (s *Service) RefreshClass(ctx context.Context, classID string) (ClassSummary, error) {
	cls, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		return ClassSummary{}, err
	}
	sum, err := s.compute(ctx, cls)
	if err != nil {
		return ClassSummary{}, err
	}
	s.cacheSet(ctx, sum)
	return sum, nil
}

func (s *Service) classSummary(ctx context.Context, cls classroom.Class) (ClassSummary, error) {
	if sum, ok := s.cacheGet(ctx, cls.ID); ok {
		return sum, nil
	}
	sum, err := s.compute(ctx, cls)
	if err != nil {
		return ClassSummary{}, err
	}
	s.cacheSet(ctx, sum)
	return sum, nil
}

func (s *Service) compute(ctx context.Context, cls classroom.Class) (ClassSummary, error) {
	counts, err := s.reader.ClassCounts(ctx, cls.ID)
	if err != nil {
		return ClassSummary{}, err
	}
	return ClassSummary{
		ClassID:              cls.ID,
		Name:                 cls.Name,
		Subject:              cls.Subject,
		TotalSessions:        counts.Sessions,
		TotalStudents:        counts.Students,
		AttendanceMarked:     counts.Marked,
		AttendancePercentage: Percentage(counts),
	}, nil
}

func cacheKey(classID string) string { return "classtrack:analytics:class:" + classID }

func (s *Service) cacheGet(ctx context.Context, classID string) (ClassSummary, bool) {
	if s.cache == nil {
		return ClassSummary{}, false
	}
	raw, err := s.cache.Get(ctx, cacheKey(classID)).Bytes()
	if err != nil {
		return ClassSummary{}, false
	}
	var sum ClassSummary
	if err := json.Unmarshal(raw, &sum); err != nil {
		return ClassSummary{}, false
	}
	return sum, true
}

func (s *Service) cacheSet(ctx context.Context, sum ClassSummary) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(sum)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(sum.ClassID), raw, s.cacheTTL).Err(); err != nil {
		log.Printf("analytics cache set failed for class %s: %v", sum.ClassID, err)
	}
}
