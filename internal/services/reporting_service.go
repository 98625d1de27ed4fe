package services

import (
	"context"
	"math"
	"time"

	"task-viewer/internal/codec"
	"task-viewer/internal/domain"
)

// weekdayNames are the chart labels of due-date weekdays, indexed by time.Weekday.
var weekdayNames = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

// WeekdayNames returns the weekday labels from Sunday to Saturday.
func WeekdayNames() []string {
	names := weekdayNames
	return names[:]
}

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	taskService TaskService
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(taskService TaskService) ReportingService {
	return &reportingServiceImpl{taskService: taskService}
}

// Statistics counts the owner's tasks by status, discipline and due weekday
func (r *reportingServiceImpl) Statistics(ctx context.Context, owner string) *domain.Statistics {
	return CalculateStatistics(r.taskService.List(ctx, owner))
}

// CalculateStatistics summarises tasks
func CalculateStatistics(tasks []*domain.Task) *domain.Statistics {
	stats := &domain.Statistics{
		ByDiscipline: make(map[string]int),
		DueByWeekday: make(map[string]int, len(weekdayNames)),
	}
	for _, name := range weekdayNames {
		stats.DueByWeekday[name] = 0
	}

	for _, task := range tasks {
		stats.Total++
		switch task.Status {
		case domain.StatusCompleted:
			stats.Completed++
		case domain.StatusInProgress:
			stats.InProgress++
		default:
			stats.Pending++
		}

		if task.Discipline != "" {
			stats.ByDiscipline[task.Discipline]++
		}

		if day, err := time.Parse(codec.ISOLayout, task.DueOn); err == nil {
			stats.DueByWeekday[weekdayNames[day.Weekday()]]++
		}
	}

	stats.Disciplines = len(stats.ByDiscipline)
	stats.CompletedPercent = percent(stats.Completed, stats.Total)
	stats.InProgressPercent = percent(stats.InProgress, stats.Total)
	return stats
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
