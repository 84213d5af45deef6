package store

import "github.com/kalathilrainu/vista-project/internal/models"

// transitionMap lists the statuses each action may start from.
// COMPLETED and CANCELLED appear in no list: terminal visits reject
// every further action.
var transitionMap = map[string][]string{
	"assign":   {models.StatusWaiting, models.StatusRouted, models.StatusInProgress},
	"attend":   {models.StatusWaiting, models.StatusRouted},
	"transfer": {models.StatusWaiting, models.StatusRouted, models.StatusInProgress},
	"complete": {models.StatusRouted, models.StatusInProgress},
	"cancel":   {models.StatusWaiting, models.StatusRouted, models.StatusInProgress},
}

func ValidTransition(action, fromStatus string) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}

func IsTerminal(status string) bool {
	return status == models.StatusCompleted || status == models.StatusCancelled
}
