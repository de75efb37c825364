// Package checkin collects rep device check-ins over MQTT and keeps
// the rep status store current. Devices push state updates; pull mode
// additionally polls devices that stay quiet.
package checkin

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fieldops/leadrouter/config"
	"github.com/fieldops/leadrouter/core/repstatus"
	"github.com/fieldops/leadrouter/infra/logger"
	infmqtt "github.com/fieldops/leadrouter/infra/mqtt"
)

// Manager collects rep check-ins either via push or polling.
type Manager struct {
	cfg    config.CheckinConfig
	cli    paho.Client
	status repstatus.Store
	log    logger.Logger

	respCh chan checkinMessage

	pollReq     prometheus.Counter
	pollResp    prometheus.Counter
	pollTimeout prometheus.Counter
	lastCollect prometheus.Gauge
}

type checkinMessage struct {
	RepID   string
	Payload []byte
	Arrived time.Time
}

// NewManager connects to MQTT and prepares check-in collection.
func NewManager(mqttCfg infmqtt.Config, cfg config.CheckinConfig, status repstatus.Store) (*Manager, error) {
	opts, err := infmqtt.NewClientOptions(mqttCfg)
	if err != nil {
		return nil, err
	}
	id := mqttCfg.ClientID
	if id != "" {
		id += "-checkin"
	} else {
		id = "checkin-" + uuid.NewString()
	}
	opts.SetClientID(id)
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	m := &Manager{
		cfg:         cfg,
		cli:         cli,
		status:      status,
		log:         logger.New("checkin"),
		respCh:      make(chan checkinMessage, 100),
		pollReq:     prometheus.NewCounter(prometheus.CounterOpts{Name: "checkin_poll_requests_total", Help: "Number of check-in poll requests"}),
		pollResp:    prometheus.NewCounter(prometheus.CounterOpts{Name: "checkin_poll_responses_total", Help: "Number of check-in poll responses"}),
		pollTimeout: prometheus.NewCounter(prometheus.CounterOpts{Name: "checkin_poll_timeout_total", Help: "Number of reps that missed a poll"}),
		lastCollect: prometheus.NewGauge(prometheus.GaugeOpts{Name: "checkin_last_collect_timestamp_seconds", Help: "Unix timestamp of last check-in"}),
	}
	prometheus.MustRegister(m.pollReq, m.pollResp, m.pollTimeout, m.lastCollect)
	return m, nil
}

// Start runs check-in collection until the context is done.
func (m *Manager) Start(ctx context.Context) {
	mode := strings.ToLower(m.cfg.Mode)
	if mode == "" {
		mode = "push"
	}
	if mode == "push" || mode == "hybrid" {
		topic := strings.TrimSuffix(m.cfg.CheckinPrefix, "/") + "/+"
		if token := m.cli.Subscribe(topic, 0, m.onPush); token.Wait() && token.Error() != nil {
			m.log.Errorf("subscribe checkin: %v", token.Error())
		}
	}
	if mode == "pull" || mode == "hybrid" {
		topic := strings.TrimSuffix(m.cfg.ResponsePrefix, "/") + "/+"
		if token := m.cli.Subscribe(topic, 0, m.onResponse); token.Wait() && token.Error() != nil {
			m.log.Errorf("subscribe response: %v", token.Error())
		}
		go m.pollLoop(ctx)
	}
	<-ctx.Done()
	if m.cli.IsConnected() {
		m.cli.Disconnect(250)
	}
}

func (m *Manager) onPush(_ paho.Client, msg paho.Message) {
	if err := m.process(msg.Payload(), msg.Topic()); err != nil {
		m.log.Errorf("push decode: %v", err)
	}
}

func (m *Manager) onResponse(_ paho.Client, msg paho.Message) {
	m.respCh <- checkinMessage{RepID: extractID(msg.Topic()), Payload: msg.Payload(), Arrived: time.Now()}
}

func extractID(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return ""
}

func (m *Manager) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(m.cfg.Interval()) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.doPoll()
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) doPoll() {
	expected := make(map[string]struct{})
	for _, st := range m.status.List(repstatus.Filter{}) {
		expected[st.RepID] = struct{}{}
	}
	m.pollReq.Inc()
	token := m.cli.Publish(m.cfg.RequestTopic, 0, false, []byte("checkin"))
	token.Wait()
	timeout := time.NewTimer(time.Duration(m.cfg.Timeout()) * time.Second)
	defer timeout.Stop()
	for {
		select {
		case resp := <-m.respCh:
			if err := m.process(resp.Payload, ""); err != nil {
				m.log.Errorf("poll decode: %v", err)
			} else {
				m.pollResp.Inc()
				m.lastCollect.SetToCurrentTime()
				delete(expected, resp.RepID)
			}
			if len(expected) == 0 {
				return
			}
		case <-timeout.C:
			for range expected {
				m.pollTimeout.Inc()
			}
			return
		}
	}
}

func (m *Manager) process(payload []byte, topic string) error {
	var msg struct {
		RepID  string `json:"rep_id"`
		Status string `json:"status"`
		Load   *int   `json:"load"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		return err
	}
	if msg.RepID == "" {
		msg.RepID = extractID(topic)
	}
	load := -1
	if msg.Load != nil && *msg.Load >= 0 {
		load = *msg.Load
	}
	if m.status != nil {
		m.status.RecordCheckin(msg.RepID, msg.Status, load)
	}
	return nil
}
