package model

import "time"

type NotificationKind string

const (
	NotificationBookingRequested NotificationKind = "booking_requested"
	NotificationBookingConfirmed NotificationKind = "booking_confirmed"
	NotificationBookingDeclined  NotificationKind = "booking_declined"
	NotificationBookingCompleted NotificationKind = "booking_completed"
)

type Notification struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	Kind      NotificationKind  `json:"kind"`
	Payload   map[string]string `json:"payload"`
	CreatedAt time.Time         `json:"created_at"`
	ReadAt    *time.Time        `json:"read_at"`
}
