package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCompanyDeleted    = "company.deleted"
	EventTypeProjectDeleted    = "project.deleted"
	EventTypeUserCreated       = "user.created"
	EventTypeUserAccessUpdated = "user.access_updated"
)

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type CompanyDeletedEvent struct {
	BaseEvent
	CompanyID string `json:"company_id"`
	ActorID   string `json:"actor_id"`
}

func NewCompanyDeletedEvent(companyID, actorID string) *CompanyDeletedEvent {
	return &CompanyDeletedEvent{
		BaseEvent: newBase(EventTypeCompanyDeleted, map[string]interface{}{
			"company_id": companyID,
			"actor_id":   actorID,
		}),
		CompanyID: companyID,
		ActorID:   actorID,
	}
}

type ProjectDeletedEvent struct {
	BaseEvent
	ProjectID string `json:"project_id"`
	CompanyID string `json:"company_id"`
	ActorID   string `json:"actor_id"`
}

func NewProjectDeletedEvent(projectID, companyID, actorID string) *ProjectDeletedEvent {
	return &ProjectDeletedEvent{
		BaseEvent: newBase(EventTypeProjectDeleted, map[string]interface{}{
			"project_id": projectID,
			"company_id": companyID,
			"actor_id":   actorID,
		}),
		ProjectID: projectID,
		CompanyID: companyID,
		ActorID:   actorID,
	}
}

type UserCreatedEvent struct {
	BaseEvent
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	ActorID string `json:"actor_id"`
}

func NewUserCreatedEvent(userID, email string, isAdmin bool, actorID string) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseEvent: newBase(EventTypeUserCreated, map[string]interface{}{
			"user_id":  userID,
			"email":    email,
			"is_admin": isAdmin,
			"actor_id": actorID,
		}),
		UserID:  userID,
		Email:   email,
		IsAdmin: isAdmin,
		ActorID: actorID,
	}
}

type UserAccessUpdatedEvent struct {
	BaseEvent
	UserID     string   `json:"user_id"`
	CompanyIDs []string `json:"company_ids"`
	ProjectIDs []string `json:"project_ids"`
	ActorID    string   `json:"actor_id"`
}

func NewUserAccessUpdatedEvent(userID string, companyIDs, projectIDs []string, actorID string) *UserAccessUpdatedEvent {
	return &UserAccessUpdatedEvent{
		BaseEvent: newBase(EventTypeUserAccessUpdated, map[string]interface{}{
			"user_id":     userID,
			"company_ids": companyIDs,
			"project_ids": projectIDs,
			"actor_id":    actorID,
		}),
		UserID:     userID,
		CompanyIDs: companyIDs,
		ProjectIDs: projectIDs,
		ActorID:    actorID,
	}
}
