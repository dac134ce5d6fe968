package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeInfo         NotificationType = "info"
	NotificationTypeTask         NotificationType = "task"
	NotificationTypeAnnouncement NotificationType = "announcement"
)

// Notification is the stored copy of a message so staff who were offline still see it
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StaffID   string             `bson:"staff_id" json:"staff_id"`
	Event     string             `bson:"event" json:"event"`
	Title     string             `bson:"title" json:"title"`
	Type      NotificationType   `bson:"type" json:"type"`
	Link      string             `bson:"link,omitempty" json:"link,omitempty"`
	IsRead    bool               `bson:"is_read" json:"is_read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	ReadAt    *time.Time         `bson:"read_at,omitempty" json:"read_at,omitempty"`
}

// Message is the JSON frame pushed over the websocket
type Message struct {
	Event   string    `json:"event"`
	Payload any       `json:"payload,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

type eventInfo struct {
	Title string
	Type  NotificationType
	Link  string
}

var events = map[string]eventInfo{
	"tasks.assigned":        {Title: "새 업무가 배정되었습니다", Type: NotificationTypeTask, Link: "/tasks"},
	"tasks.status":          {Title: "업무 상태가 변경되었습니다", Type: NotificationTypeTask, Link: "/tasks"},
	"ot_members.assigned":   {Title: "OT 회원이 배정되었습니다", Type: NotificationTypeTask, Link: "/ot"},
	"announcements.created": {Title: "새 공지사항이 등록되었습니다", Type: NotificationTypeAnnouncement, Link: "/announcements/feed"},
}

func describe(event string) eventInfo {
	if info, ok := events[event]; ok {
		return info
	}
	return eventInfo{Title: event, Type: NotificationTypeInfo}
}
