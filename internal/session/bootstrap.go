package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CreateRoom asks the server for a fresh room and returns its id.
func CreateRoom(ctx context.Context, server, hostID string) (string, error) {
	body, err := json.Marshal(map[string]string{"hostId": hostID})
	if err != nil {
		return "", err
	}
	u := strings.TrimSuffix(server, "/") + "/room/create"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("create room: server returned %s", resp.Status)
	}

	var out struct {
		RoomID string `json:"roomId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}
	if out.RoomID == "" {
		return "", fmt.Errorf("create room: empty roomId in response")
	}
	return out.RoomID, nil
}

// RoomLink builds a shareable join link for a room.
func RoomLink(server, roomID string) string {
	return fmt.Sprintf("%s/?roomId=%s", strings.TrimSuffix(server, "/"), roomID)
}
