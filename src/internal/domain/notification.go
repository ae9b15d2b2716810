package domain

import "time"

type NotificationUrgency string

const (
	NotificationUrgencyLow    NotificationUrgency = "low"
	NotificationUrgencyMedium NotificationUrgency = "medium"
	NotificationUrgencyHigh   NotificationUrgency = "high"
)

func (u NotificationUrgency) Valid() bool {
	return u == NotificationUrgencyLow || u == NotificationUrgencyMedium || u == NotificationUrgencyHigh
}

type NotificationAudience string

const (
	NotificationAudienceIndividual NotificationAudience = "individual"
	NotificationAudienceBusiness   NotificationAudience = "business"
	NotificationAudienceAll        NotificationAudience = "all"
)

func (a NotificationAudience) Valid() bool {
	return a == NotificationAudienceIndividual || a == NotificationAudienceBusiness || a == NotificationAudienceAll
}

type Notification struct {
	ID           int64
	Title        string
	Content      string
	Urgency      NotificationUrgency
	DesignatedTo NotificationAudience
	CreatedAt    time.Time
}
