package model

type VideoRoomStatus string

const (
	VideoRoomReady  VideoRoomStatus = "ready"
	VideoRoomFailed VideoRoomStatus = "failed"
)

// VideoRoom видеокомната, привязанная к записи
type VideoRoom struct {
	Status VideoRoomStatus `json:"status"`
	Name   string          `json:"name,omitempty"`
	URL    string          `json:"url,omitempty"`
	Error  string          `json:"error,omitempty"` // заполняется, если комнату создать не удалось
}

// Ready проверяет что комната создана и ссылка доступна
func (v *VideoRoom) Ready() bool {
	return v != nil && v.Status == VideoRoomReady && v.URL != ""
}
