package notify

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/musicmentor/internal/model"
)

// Payload keys
const (
	KeyBookingID   = "booking_id"
	KeyMentorName  = "mentor_name"
	KeyStudentName = "student_name"
	KeyWhen        = "when"
	KeyMessage     = "message"
	KeyVideoURL    = "video_url"
)

// Render текст уведомления для пользователя
func Render(n *model.Notification) string {
	p := n.Payload
	var b strings.Builder

	switch n.Kind {
	case model.NotificationBookingRequested:
		fmt.Fprintf(&b, "📩 New lesson request from %s\n", p[KeyStudentName])
		if when := p[KeyWhen]; when != "" {
			fmt.Fprintf(&b, "🕐 %s\n", when)
		}
		if msg := p[KeyMessage]; msg != "" {
			fmt.Fprintf(&b, "\n«%s»\n", msg)
		}
		b.WriteString("\nOpen /requests to confirm or decline.")
	case model.NotificationBookingConfirmed:
		fmt.Fprintf(&b, "✅ %s confirmed your lesson", p[KeyMentorName])
		if when := p[KeyWhen]; when != "" {
			fmt.Fprintf(&b, " (%s)", when)
		}
		b.WriteString(".")
		if url := p[KeyVideoURL]; url != "" {
			fmt.Fprintf(&b, "\n🎥 Video room: %s", url)
		}
	case model.NotificationBookingDeclined:
		fmt.Fprintf(&b, "❌ %s declined your lesson request", p[KeyMentorName])
		if when := p[KeyWhen]; when != "" {
			fmt.Fprintf(&b, " (%s)", when)
		}
		b.WriteString(".")
	case model.NotificationBookingCompleted:
		fmt.Fprintf(&b, "🎶 Your lesson with %s is complete. Thanks for practicing!", p[KeyMentorName])
	default:
		fmt.Fprintf(&b, "🔔 %s", n.Kind)
	}

	return b.String()
}
