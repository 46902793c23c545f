package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/adapter/queue"
)

var (
	serverURL   = flag.String("server", "ws://localhost:8080/ws/voice", "Concierge voice WebSocket URL")
	room        = flag.String("room", "101", "Room number the tablet belongs to")
	token       = flag.String("token", "", "Room token, when the server requires one")
	lang        = flag.String("language", "", "Preferred language (en, zh, vi, it)")
	audioFile   = flag.String("audio", "", "Send this LINEAR16 file as one utterance and exit")
	natsURL     = flag.String("nats", "", "Publish simulated device statuses to this NATS server")
	interval    = flag.Duration("interval", 5*time.Second, "Status publish interval")
	interactive = flag.Bool("interactive", true, "Read typed commands from stdin")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *natsURL != "" {
		mq, err := queue.NewNATSQueue(*natsURL, queue.NATSOptions{MaxReconnects: 5, ReconnectWait: time.Second}, logger)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer mq.Close()
		publisher := NewStatusPublisher(mq, *room, logger)
		go publisher.Run(ctx, *interval)
	}

	tablet := NewTablet(&TabletConfig{
		ServerURL: *serverURL,
		Room:      *room,
		Token:     *token,
		Language:  *lang,
	}, logger)

	if err := tablet.Connect(); err != nil {
		logger.Fatal("Failed to connect to server", zap.Error(err))
	}
	defer tablet.Close()

	if *audioFile != "" {
		audio, err := os.ReadFile(*audioFile)
		if err != nil {
			logger.Fatal("Failed to read audio file", zap.Error(err))
		}
		reply, err := tablet.SendAudio(audio)
		if err != nil {
			logger.Fatal("Voice command failed", zap.Error(err))
		}
		printReply(reply)
		return
	}

	if *interactive {
		go func() {
			tablet.RunInteractive(os.Stdin, os.Stdout)
			stop()
		}()
	}

	<-ctx.Done()
	fmt.Println("\nShutting down simulator...")
}
