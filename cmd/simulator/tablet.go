package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/adapter/queue"
	"github.com/seu-repo/voice-concierge/internal/domain"
)

// TabletConfig holds the simulated in-room tablet configuration
type TabletConfig struct {
	ServerURL string
	Room      string
	Token     string
	Language  string
}

// Tablet simulates the guest tablet talking to the voice stream.
type Tablet struct {
	config *TabletConfig
	conn   *websocket.Conn
	log    *zap.Logger
	mu     sync.Mutex
}

func NewTablet(config *TabletConfig, log *zap.Logger) *Tablet {
	return &Tablet{config: config, log: log}
}

func (t *Tablet) Connect() error {
	u, err := url.Parse(t.config.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	q := u.Query()
	q.Set("room", t.config.Room)
	if t.config.Token != "" {
		q.Set("token", t.config.Token)
	}
	if t.config.Language != "" {
		q.Set("language", t.config.Language)
	}
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	t.conn = conn
	t.log.Info("Connected to concierge", zap.String("url", t.config.ServerURL), zap.String("room", t.config.Room))
	return nil
}

func (t *Tablet) Close() {
	if t.conn == nil {
		return
	}
	t.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	t.conn.Close()
}

// SendText sends a typed command and waits for the reply.
func (t *Tablet) SendText(text string) (map[string]interface{}, error) {
	frame, _ := json.Marshal(map[string]string{"text": text})
	return t.roundTrip(websocket.TextMessage, frame)
}

// SendAudio sends one utterance and waits for the reply.
func (t *Tablet) SendAudio(audio []byte) (map[string]interface{}, error) {
	return t.roundTrip(websocket.BinaryMessage, audio)
}

func (t *Tablet) roundTrip(messageType int, data []byte) (map[string]interface{}, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.conn.WriteMessage(messageType, data); err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}
	t.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	_, raw, err := t.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("receive: %w", err)
	}

	var reply map[string]interface{}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	if msg, ok := reply["error"].(string); ok {
		return nil, fmt.Errorf("server: %s", msg)
	}
	return reply, nil
}

// RunInteractive reads one command per line until EOF or "quit".
func (t *Tablet) RunInteractive(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	fmt.Fprintf(out, "Room %s concierge. Type a command, or 'quit'.\n> ", t.config.Room)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
		case "quit", "exit":
			return
		default:
			reply, err := t.SendText(line)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			} else {
				printReplyTo(out, reply)
			}
		}
		fmt.Fprint(out, "> ")
	}
}

func printReply(reply map[string]interface{}) {
	printReplyTo(os.Stdout, reply)
}

func printReplyTo(out io.Writer, reply map[string]interface{}) {
	fmt.Fprintf(out, "[%v] %v -> %v\n  intent=%v reply=%q\n",
		reply["language"], reply["transcript"], reply["translatedText"], reply["intent"], reply["replyText"])
}

// StatusPublisher emits fake device statuses on rooms.<room>.status.
type StatusPublisher struct {
	mq   queue.MessageQueue
	room string
	log  *zap.Logger
	rng  *rand.Rand
}

var simulatedDevices = []struct {
	id     string
	action string
}{
	{"t_11_l1", "onoff"},
	{"t_10_l2", "onoff"},
	{"room_ac", "temperature"},
	{"room_curtains", "position"},
}

func NewStatusPublisher(mq queue.MessageQueue, room string, log *zap.Logger) *StatusPublisher {
	return &StatusPublisher{mq: mq, room: room, log: log, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (p *StatusPublisher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.publishOne(); err != nil {
				p.log.Warn("Failed to publish status", zap.Error(err))
			}
		}
	}
}

func (p *StatusPublisher) publishOne() error {
	d := simulatedDevices[p.rng.Intn(len(simulatedDevices))]
	var value interface{}
	switch d.action {
	case "onoff":
		value = p.rng.Intn(2) == 1
	case "temperature":
		value = 20 + p.rng.Intn(8)
	default:
		value = []int{0, 50, 100}[p.rng.Intn(3)]
	}

	payload, err := json.Marshal(domain.DeviceStatus{
		RoomID:   p.room,
		DeviceID: d.id,
		Action:   d.action,
		Value:    value,
		At:       time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	subject := "rooms." + p.room + ".status"
	p.log.Debug("Publishing device status", zap.String("subject", subject), zap.ByteString("payload", payload))
	return p.mq.Publish(subject, payload)
}
