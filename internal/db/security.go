package db

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const securityEventsFile = DataDir + "/security_events.jsonl"

// SecurityEvent records a rejected API request.
type SecurityEvent struct {
	Timestamp  time.Time `json:"ts"`
	RemoteAddr string    `json:"remote_addr"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Reason     string    `json:"reason"`
}

// LogSecurityEvent appends a security event to the jsonl file
func LogSecurityEvent(baseDir string, event SecurityEvent) error {
	eventsPath := filepath.Join(baseDir, securityEventsFile)

	if err := os.MkdirAll(filepath.Dir(eventsPath), 0755); err != nil {
		return err
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(eventsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(data, '\n'))
	return err
}

// ReadSecurityEvents reads all security events from the file. Malformed
// lines are skipped.
func ReadSecurityEvents(baseDir string) ([]SecurityEvent, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, securityEventsFile))
	if os.IsNotExist(err) {
		return []SecurityEvent{}, nil
	}
	if err != nil {
		return nil, err
	}

	events := []SecurityEvent{}
	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			if i > start {
				var e SecurityEvent
				if err := json.Unmarshal(data[start:i], &e); err == nil {
					events = append(events, e)
				}
			}
			start = i + 1
		}
	}

	return events, nil
}

// ClearSecurityEvents removes the security events file
func ClearSecurityEvents(baseDir string) error {
	err := os.Remove(filepath.Join(baseDir, securityEventsFile))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
