package services

import (
	"log"

	"backend/repository"
)

// NotificationService is the fire-and-forget boundary to the push
// delivery collaborator. Failures here must never fail the report
// operation itself, so every call is detached and only logged.
type NotificationService struct {
	UserRepo *repository.UserRepository
}

func NewNotificationService(userRepo *repository.UserRepository) *NotificationService {
	return &NotificationService{UserRepo: userRepo}
}

// NotifyAsync delivers in a detached goroutine.
func (n *NotificationService) NotifyAsync(userID uint, title, body string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[NOTIFY] panic recovered: %v", r)
			}
		}()
		if err := n.send(userID, title, body); err != nil {
			log.Printf("[NOTIFY] delivery failed for user %d: %v", userID, err)
		}
	}()
}

func (n *NotificationService) send(userID uint, title, body string) error {
	user, err := n.UserRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user.FCMToken == "" {
		// nothing registered; not an error
		return nil
	}
	// push sender is an external collaborator; stub logs the handoff
	log.Printf("[NOTIFY] -> user %d (%s): %s | %s", userID, user.Email, title, body)
	return nil
}
