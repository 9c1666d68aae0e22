package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const sendTimeout = 5 * time.Second

type GameEvent struct {
	Type      string `json:"type"`
	GameID    string `json:"game_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data"`
}

type GameStartData struct {
	First string `json:"first"`
}

type MoveData struct {
	Step   int    `json:"step"`
	Piece  string `json:"piece"`
	Column int    `json:"column"`
	Row    int    `json:"row"`
	Nodes  int    `json:"nodes"`
}

type GameEndData struct {
	Winner   string `json:"winner"`
	IsDraw   bool   `json:"is_draw"`
	Duration int64  `json:"duration_ms"`
	Moves    int    `json:"moves"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes game events to kafka, keyed by game ID. Without brokers
// it is disabled and every call is a no-op.
type Producer struct {
	writer  messageWriter
	enabled bool
	wg      sync.WaitGroup
}

func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || brokers[0] == "" {
		log.Debug().Msg("kafka disabled: no brokers configured")
		return &Producer{enabled: false}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	log.Info().Str("topic", topic).Msg("kafka producer initialized")
	return newProducer(writer)
}

func newProducer(writer messageWriter) *Producer {
	return &Producer{writer: writer, enabled: true}
}

func (p *Producer) GameStarted(id string, first game.Piece) {
	p.send(GameEvent{
		Type:   "game_start",
		GameID: id,
		Data:   GameStartData{First: first.String()},
	})
}

func (p *Producer) MovePlayed(id string, move metrics.MoveMetric, row int) {
	p.send(GameEvent{
		Type:   "move",
		GameID: id,
		Data: MoveData{
			Step:   move.Step,
			Piece:  move.Piece.String(),
			Column: move.Column,
			Row:    row,
			Nodes:  move.Nodes,
		},
	})
}

func (p *Producer) GameEnded(result metrics.GameMetric, moves []metrics.MoveMetric) {
	p.send(GameEvent{
		Type:   "game_end",
		GameID: result.ID,
		Data: GameEndData{
			Winner:   result.Winner.String(),
			IsDraw:   result.Winner == game.Empty,
			Duration: result.Duration.Milliseconds(),
			Moves:    len(moves),
		},
	})
}

func (p *Producer) send(event GameEvent) {
	if !p.enabled {
		return
	}
	event.Timestamp = time.Now().Unix()
	data, err := json.Marshal(event)
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal kafka event")
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		err := p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(event.GameID),
			Value: data,
		})
		if err != nil {
			log.Warn().Err(err).Str("type", event.Type).Str("game", event.GameID).Msg("failed to send kafka event")
			return
		}
		log.Debug().Str("type", event.Type).Str("game", event.GameID).Msg("kafka event sent")
	}()
}

// Close waits for in-flight events before closing the writer.
func (p *Producer) Close() error {
	if !p.enabled {
		return nil
	}
	p.wg.Wait()
	return p.writer.Close()
}
