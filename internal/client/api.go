package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tessro/gong/internal/alarm"
	"github.com/tessro/gong/internal/core"
)

// AudioResponse is the body of the audio endpoints.
type AudioResponse struct {
	Status string `json:"status"`
	Volume *int   `json:"volume,omitempty"`
	Track  *int   `json:"track,omitempty"`
}

// TimeResponse is the device clock.
type TimeResponse struct {
	Time string `json:"time"`
	ISO  string `json:"iso"`
}

// Play starts or resumes playback.
func (c *Client) Play(ctx context.Context) (*AudioResponse, error) {
	var resp AudioResponse
	if err := c.post(ctx, "/api/audio/play", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop stops playback.
func (c *Client) Stop(ctx context.Context) (*AudioResponse, error) {
	var resp AudioResponse
	if err := c.post(ctx, "/api/audio/stop", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Volume sets the volume. The device clamps it to 0..30.
func (c *Client) Volume(ctx context.Context, v int) (*AudioResponse, error) {
	var resp AudioResponse
	params := url.Values{"value": {strconv.Itoa(v)}}
	if err := c.post(ctx, "/api/audio/volume", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Track plays track n.
func (c *Client) Track(ctx context.Context, n int) (*AudioResponse, error) {
	var resp AudioResponse
	params := url.Values{"num": {strconv.Itoa(n)}}
	if err := c.post(ctx, "/api/audio/track", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status fetches the device status.
func (c *Client) Status(ctx context.Context) (*core.DeviceStatus, error) {
	var status core.DeviceStatus
	if err := c.get(ctx, "/api/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// SetWiFi stores new credentials. The device restarts afterwards.
func (c *Client) SetWiFi(ctx context.Context, ssid, pass string) error {
	var page string
	params := url.Values{"ssid": {ssid}, "pass": {pass}}
	return c.post(ctx, "/api/wifi", params, &page)
}

// Alarms lists the alarm schedule.
func (c *Client) Alarms(ctx context.Context) ([]alarm.Alarm, error) {
	var resp struct {
		Alarms []alarm.Alarm `json:"alarms"`
	}
	if err := c.get(ctx, "/api/alarms", &resp); err != nil {
		return nil, err
	}
	return resp.Alarms, nil
}

// AddAlarm creates an alarm. It is not retried: the device may have stored
// the alarm even when the answer never arrived.
func (c *Client) AddAlarm(ctx context.Context, a alarm.Alarm) (*alarm.Alarm, error) {
	var created alarm.Alarm
	if err := c.send(ctx, http.MethodPost, "/api/alarms", nil, a, &created, 0); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAlarm patches an alarm.
func (c *Client) UpdateAlarm(ctx context.Context, id int, p alarm.Patch) (*alarm.Alarm, error) {
	var updated alarm.Alarm
	if err := c.request(ctx, http.MethodPatch, "/api/alarms/"+strconv.Itoa(id), nil, p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAlarm removes an alarm.
func (c *Client) DeleteAlarm(ctx context.Context, id int) error {
	return c.request(ctx, http.MethodDelete, "/api/alarms/"+strconv.Itoa(id), nil, nil, nil)
}

// Time returns the device clock.
func (c *Client) Time(ctx context.Context) (*TimeResponse, error) {
	var resp TimeResponse
	if err := c.get(ctx, "/api/time", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
