package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	coremqtt "github.com/fieldops/leadrouter/core/mqtt"
	"github.com/fieldops/leadrouter/core/model"
	"github.com/fieldops/leadrouter/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker      string          `json:"broker"`
	ClientID    string          `json:"client_id"`
	Username    string          `json:"username"`
	Password    string          `json:"password"`
	AckTopic    string          `json:"ack_topic"`
	IntakeTopic string          `json:"intake_topic"`
	EventPrefix string          `json:"event_prefix"`
	UseTLS      bool            `json:"use_tls"`
	ClientCert  string          `json:"client_cert"`
	ClientKey   string          `json:"client_key"`
	CABundle    string          `json:"ca_bundle"`
	AuthMethod  string          `json:"auth_method"`
	QoS         map[string]byte `json:"qos"`
	LWTTopic    string          `json:"lwt_topic"`
	LWTPayload  string          `json:"lwt_payload"`
	LWTQoS      byte            `json:"lwt_qos"`
	LWTRetain   bool            `json:"lwt_retain"`
	MaxRetries  int             `json:"max_retries"`
	BackoffMS   int             `json:"backoff_ms"`
	TLSConfig   *tls.Config     `json:"-"`
}

// SetDefaults fills in topics and retry behavior when unset.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "leadrouter"
	}
	if c.AckTopic == "" {
		c.AckTopic = "rep/+/ack"
	}
	if c.IntakeTopic == "" {
		c.IntakeTopic = "leads/intake"
	}
	if c.EventPrefix == "" {
		c.EventPrefix = "leadrouter/events"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = 100
	}
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

// PahoClient implements the core mqtt.Client interface using Eclipse Paho.
// It also carries lead intake subscriptions and domain event publishing.
type PahoClient struct {
	cli         pahoClient
	ackTopic    string
	intakeTopic string
	eventPrefix string
	qos         map[string]byte

	mu         sync.Mutex
	ackChans   map[string]chan struct{}
	logger     logger.Logger
	maxRetries int
	backoff    time.Duration
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewPahoClient connects to the MQTT broker and subscribes to the ACK topic.
func NewPahoClient(cfg Config) (*PahoClient, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New("mqtt_client")
	pc := &PahoClient{
		ackTopic:    cfg.AckTopic,
		intakeTopic: cfg.IntakeTopic,
		eventPrefix: cfg.EventPrefix,
		ackChans:    make(map[string]chan struct{}),
		logger:      log,
		qos:         cfg.QoS,
		maxRetries:  cfg.MaxRetries,
		backoff:     time.Duration(cfg.BackoffMS) * time.Millisecond,
	}

	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		qos := byte(0)
		if q, ok := pc.qos["ack"]; ok {
			qos = q
		}
		if token := c.Subscribe(pc.ackTopic, qos, pc.onAck); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	pc.cli = c
	return pc, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.AuthMethod == "username_password" || cfg.AuthMethod == "both" || cfg.AuthMethod == "" {
		if cfg.Username != "" {
			opts.SetUsername(cfg.Username)
		}
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	cfg := &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}
	return cfg, nil
}

func (p *PahoClient) onAck(_ paho.Client, msg paho.Message) {
	var m struct {
		NoticeID string `json:"notice_id"`
	}
	if err := json.Unmarshal(msg.Payload(), &m); err != nil {
		p.logger.Errorf("failed to decode ack: %v", err)
		return
	}
	p.mu.Lock()
	ch, ok := p.ackChans[m.NoticeID]
	if ok {
		select {
		case ch <- struct{}{}:
		default:
		}
		p.logger.Infof("received ack %s", m.NoticeID)
	}
	p.mu.Unlock()
}

// NotifyAssignment pushes the assignment to the rep's device topic and
// returns the notice identifier used for acknowledgment tracking.
func (p *PahoClient) NotifyAssignment(repID string, asn model.Assignment) (string, error) {
	noticeID := uuid.NewString()
	notice := struct {
		NoticeID   string           `json:"notice_id"`
		RepID      string           `json:"rep_id"`
		Assignment model.Assignment `json:"assignment"`
		Timestamp  int64            `json:"timestamp"`
	}{
		NoticeID:   noticeID,
		RepID:      repID,
		Assignment: asn,
		Timestamp:  time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return "", err
	}

	topic := fmt.Sprintf("rep/%s/assignment", repID)
	qos := byte(0)
	if q, ok := p.qos["assignment"]; ok {
		qos = q
	}
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, qos, false, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.logger.Infof("sent notice %s to %s", noticeID, topic)
			break
		}
		p.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		time.Sleep(p.backoff * time.Duration(1<<attempt))
	}
	if publishErr != nil {
		return "", publishErr
	}

	p.mu.Lock()
	p.ackChans[noticeID] = make(chan struct{}, 1)
	p.mu.Unlock()

	return noticeID, nil
}

// WaitForAck blocks until an ACK for the given notice ID is received or timeout.
func (p *PahoClient) WaitForAck(noticeID string, timeout time.Duration) (bool, error) {
	p.mu.Lock()
	ch := p.ackChans[noticeID]
	p.mu.Unlock()
	if ch == nil {
		return false, fmt.Errorf("unknown notice")
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
		p.mu.Lock()
		delete(p.ackChans, noticeID)
		p.mu.Unlock()
		return true, nil
	case <-timer.C:
		p.mu.Lock()
		delete(p.ackChans, noticeID)
		p.mu.Unlock()
		return false, fmt.Errorf("notice %s: %w", noticeID, coremqtt.ErrAckTimeout)
	}
}

// PublishEvent publishes a domain event JSON payload under the event prefix.
func (p *PahoClient) PublishEvent(name string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/%s", p.eventPrefix, name)
	qos := byte(0)
	if q, ok := p.qos["event"]; ok {
		qos = q
	}
	token := p.cli.Publish(topic, qos, false, b)
	token.Wait()
	return token.Error()
}

// SubscribeLeads registers a handler for leads arriving on the intake topic.
// Payloads that fail validation are logged and dropped.
func (p *PahoClient) SubscribeLeads(handler func(model.Lead)) error {
	qos := byte(0)
	if q, ok := p.qos["intake"]; ok {
		qos = q
	}
	token := p.cli.Subscribe(p.intakeTopic, qos, func(_ paho.Client, msg paho.Message) {
		var lead model.Lead
		if err := json.Unmarshal(msg.Payload(), &lead); err != nil {
			p.logger.Errorf("failed to decode lead: %v", err)
			return
		}
		if err := lead.Validate(); err != nil {
			p.logger.Errorf("rejected lead %s: %v", lead.ID, err)
			return
		}
		handler(lead)
	})
	token.Wait()
	return token.Error()
}

// Disconnect gracefully closes the MQTT connection.
func (p *PahoClient) Disconnect() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
