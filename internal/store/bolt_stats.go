package store

import (
	"context"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/manforhire/contractor-api/internal/models"
)

func (s *BoltStore) DashboardStats(ctx context.Context, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{
		PopularServices: []ServiceTypeCount{},
		WeeklyActivity:  []DailyCount{},
	}

	monthAgo := now.Add(-30 * 24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	err := s.db.View(func(tx *bolt.Tx) error {
		orders, err := allDocs[models.WorkOrder](tx, workOrdersBucket)
		if err != nil {
			return err
		}

		byServiceType := map[string]int64{}
		byDay := map[string]int64{}
		for _, o := range orders {
			switch o.Status {
			case "pending":
				stats.PendingOrders++
			case "in-progress":
				stats.InProgressOrders++
			case "completed":
				stats.CompletedOrders++
			}
			if !o.CreatedAt.Before(monthAgo) {
				byServiceType[o.ServiceType]++
			}
			if !o.CreatedAt.Before(weekAgo) {
				byDay[o.CreatedAt.UTC().Format("2006-01-02")]++
			}
		}

		for st, n := range byServiceType {
			stats.PopularServices = append(stats.PopularServices, ServiceTypeCount{ServiceType: st, Count: n})
		}
		sort.Slice(stats.PopularServices, func(i, j int) bool {
			a, b := stats.PopularServices[i], stats.PopularServices[j]
			if a.Count != b.Count {
				return a.Count > b.Count
			}
			return a.ServiceType < b.ServiceType
		})
		if len(stats.PopularServices) > 5 {
			stats.PopularServices = stats.PopularServices[:5]
		}

		for day, n := range byDay {
			stats.WeeklyActivity = append(stats.WeeklyActivity, DailyCount{Date: day, Count: n})
		}
		sort.Slice(stats.WeeklyActivity, func(i, j int) bool {
			return stats.WeeklyActivity[i].Date < stats.WeeklyActivity[j].Date
		})

		messages, err := allDocs[models.ContactMessage](tx, contactBucket)
		if err != nil {
			return err
		}
		for _, m := range messages {
			if m.Status == "unread" {
				stats.UnreadMessages++
			}
		}

		stats.GalleryImages = int64(tx.Bucket(galleryBucket).Stats().KeyN)

		services, err := allDocs[models.Service](tx, servicesBucket)
		if err != nil {
			return err
		}
		for _, svc := range services {
			if svc.IsActive {
				stats.ActiveServices++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *BoltStore) SummarizeWorkRequests(ctx context.Context) (*WorkRequestSummary, error) {
	sum := &WorkRequestSummary{
		ByStatus:      []ValueCount{},
		ByUrgency:     []ValueCount{},
		ByServiceType: []ValueCount{},
	}

	err := s.db.View(func(tx *bolt.Tx) error {
		requests, err := allDocs[models.WorkRequest](tx, workRequestsBucket)
		if err != nil {
			return err
		}
		sum.Total = int64(len(requests))

		byStatus := map[string]int64{}
		byUrgency := map[string]int64{}
		byPreference := map[string]int64{}
		for _, r := range requests {
			byStatus[r.Status]++
			byUrgency[r.UrgencyLevel]++
			byPreference[r.ServicePreference]++
		}
		sum.ByStatus = sortedCounts(byStatus)
		sum.ByUrgency = sortedCounts(byUrgency)
		sum.ByServiceType = sortedCounts(byPreference)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}

func sortedCounts(m map[string]int64) []ValueCount {
	out := make([]ValueCount, 0, len(m))
	for v, n := range m {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
