package models

// Enum values accepted by create/update validation. Status transitions are
// unconstrained; any listed value may be set by an admin.

var workOrderStatuses = []string{"pending", "in-progress", "completed", "cancelled"}

var workOrderPriorities = []string{"low", "medium", "high", "urgent"}

var workRequestStatuses = []string{"pending", "in-progress", "completed", "cancelled"}

var urgencyLevels = []string{"24hours", "1week", "1month", "annual"}

var servicePreferences = []string{"licensed", "general"}

var contactStatuses = []string{"unread", "read", "replied"}

func ValidWorkOrderStatus(s string) bool { return contains(workOrderStatuses, s) }

func ValidWorkOrderPriority(s string) bool { return contains(workOrderPriorities, s) }

func ValidWorkRequestStatus(s string) bool { return contains(workRequestStatuses, s) }

func ValidUrgencyLevel(s string) bool { return contains(urgencyLevels, s) }

func ValidServicePreference(s string) bool { return contains(servicePreferences, s) }

func ValidContactStatus(s string) bool { return contains(contactStatuses, s) }

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
