package store

import (
	"context"
	"time"

	"github.com/manforhire/contractor-api/internal/models"
)

// DashboardStats runs the dashboard batch. The sub-queries are not wrapped
// in a transaction; each one reads current state.
func (s *PostgresStore) DashboardStats(ctx context.Context, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{
		PopularServices: []ServiceTypeCount{},
		WeeklyActivity:  []DailyCount{},
	}

	countOrders := func(status string, dst *int64) error {
		return s.db.WithContext(ctx).Model(&models.WorkOrder{}).
			Where("status = ?", status).Count(dst).Error
	}
	if err := countOrders("pending", &stats.PendingOrders); err != nil {
		return nil, translateErr(err)
	}
	if err := countOrders("in-progress", &stats.InProgressOrders); err != nil {
		return nil, translateErr(err)
	}
	if err := countOrders("completed", &stats.CompletedOrders); err != nil {
		return nil, translateErr(err)
	}

	if err := s.db.WithContext(ctx).Model(&models.ContactMessage{}).
		Where("status = ?", "unread").Count(&stats.UnreadMessages).Error; err != nil {
		return nil, translateErr(err)
	}
	if err := s.db.WithContext(ctx).Model(&models.GalleryImage{}).
		Count(&stats.GalleryImages).Error; err != nil {
		return nil, translateErr(err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Service{}).
		Where("is_active = ?", true).Count(&stats.ActiveServices).Error; err != nil {
		return nil, translateErr(err)
	}

	// Top service types over the trailing 30 days. Ties break on the
	// service type value ascending.
	monthAgo := now.Add(-30 * 24 * time.Hour)
	err := s.db.WithContext(ctx).Model(&models.WorkOrder{}).
		Select("service_type, COUNT(*) AS count").
		Where("created_at >= ?", monthAgo).
		Group("service_type").
		Order("count DESC, service_type ASC").
		Limit(5).
		Scan(&stats.PopularServices).Error
	if err != nil {
		return nil, translateErr(err)
	}

	// Daily order counts over the trailing 7 days, bucketed by UTC date.
	weekAgo := now.Add(-7 * 24 * time.Hour)
	err = s.db.WithContext(ctx).Model(&models.WorkOrder{}).
		Select("to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS date, COUNT(*) AS count").
		Where("created_at >= ?", weekAgo).
		Group("date").
		Order("date ASC").
		Scan(&stats.WeeklyActivity).Error
	if err != nil {
		return nil, translateErr(err)
	}

	return stats, nil
}

func (s *PostgresStore) SummarizeWorkRequests(ctx context.Context) (*WorkRequestSummary, error) {
	sum := &WorkRequestSummary{
		ByStatus:      []ValueCount{},
		ByUrgency:     []ValueCount{},
		ByServiceType: []ValueCount{},
	}

	if err := s.db.WithContext(ctx).Model(&models.WorkRequest{}).Count(&sum.Total).Error; err != nil {
		return nil, translateErr(err)
	}

	groupBy := func(column string, dst *[]ValueCount) error {
		return s.db.WithContext(ctx).Model(&models.WorkRequest{}).
			Select(column + " AS value, COUNT(*) AS count").
			Group(column).
			Order(column + " ASC").
			Scan(dst).Error
	}

	if err := groupBy("status", &sum.ByStatus); err != nil {
		return nil, translateErr(err)
	}
	if err := groupBy("urgency_level", &sum.ByUrgency); err != nil {
		return nil, translateErr(err)
	}
	if err := groupBy("service_preference", &sum.ByServiceType); err != nil {
		return nil, translateErr(err)
	}

	return sum, nil
}
