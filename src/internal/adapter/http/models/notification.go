package models

import (
	"errors"
	"strings"
)

type CreateNotificationRequest struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	Urgency      string `json:"urgency"`
	DesignatedTo string `json:"designated_to"`
}

func (r CreateNotificationRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(r.Content) == "" {
		errs = append(errs, "content is required")
	}
	switch strings.ToLower(strings.TrimSpace(r.Urgency)) {
	case "low", "medium", "high":
	default:
		errs = append(errs, "urgency must be low, medium, or high")
	}
	switch strings.ToLower(strings.TrimSpace(r.DesignatedTo)) {
	case "individual", "business", "all":
	default:
		errs = append(errs, "designated_to must be individual, business, or all")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type NotificationResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Urgency      string `json:"urgency"`
	DesignatedTo string `json:"designated_to"`
	Date         string `json:"date"`
}
