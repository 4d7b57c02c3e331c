package state

import (
	"time"

	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/callbacktypes"
)

// DefaultIdleTTL время, после которого незавершённый диалог забывается
const DefaultIdleTTL = 30 * time.Minute

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State     callbacktypes.UserState
	Data      map[string]interface{} // Временные данные для текущего диалога
	TouchedAt time.Time
}
