// Package video создаёт видеокомнаты для подтверждённых занятий через Daily.co
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotConfigured ключ API не задан
var ErrNotConfigured = errors.New("video provider is not configured")

// RoomDetails данные занятия для создания комнаты
type RoomDetails struct {
	MentorName  string
	StudentName string
	Start       time.Time
	End         time.Time
}

// RoomInfo созданная комната
type RoomInfo struct {
	Name string
	URL  string
}

type DailyClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	now     func() time.Time
	newName func() string
	logger  *zap.Logger
}

func NewDailyClient(apiKey, baseURL string, logger *zap.Logger) *DailyClient {
	if baseURL == "" {
		baseURL = "https://api.daily.co/v1"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		now:     time.Now,
		newName: RoomName,
		logger:  logger,
	}
}

type roomProperties struct {
	Exp        int64 `json:"exp,omitempty"`
	NBF        int64 `json:"nbf,omitempty"`
	EnableChat bool  `json:"enable_chat"`
}

type createRoomRequest struct {
	Name       string         `json:"name"`
	Privacy    string         `json:"privacy"`
	Properties roomProperties `json:"properties"`
}

type createRoomResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RoomName случайное имя комнаты. Комнаты публичные, поэтому ссылка
// не должна выводиться из ID записи; имя хранится в записи после создания.
func RoomName() string {
	return "mm-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ProvisionRoom создаёт комнату со случайным именем, доступную с начала занятия до часа после конца
func (c *DailyClient) ProvisionRoom(ctx context.Context, bookingID int64, details RoomDetails) (*RoomInfo, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	props := roomProperties{EnableChat: true}
	if !details.End.IsZero() {
		props.Exp = details.End.Add(time.Hour).Unix()
	} else {
		props.Exp = c.now().Add(24 * time.Hour).Unix()
	}
	if !details.Start.IsZero() {
		props.NBF = details.Start.Add(-10 * time.Minute).Unix()
	}

	payload := createRoomRequest{
		Name:       c.newName(),
		Privacy:    "public",
		Properties: props,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal room request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rooms", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send room request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Warn("Daily API error",
			zap.Int64("booking_id", bookingID),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)),
		)
		return nil, fmt.Errorf("daily api: status %d", resp.StatusCode)
	}

	var room createRoomResponse
	if err := json.Unmarshal(respBody, &room); err != nil {
		return nil, fmt.Errorf("decode room response: %w", err)
	}
	if room.URL == "" {
		return nil, fmt.Errorf("daily api: empty room url")
	}

	c.logger.Info("Video room created", zap.Int64("booking_id", bookingID), zap.String("room", room.Name))

	return &RoomInfo{Name: room.Name, URL: room.URL}, nil
}
