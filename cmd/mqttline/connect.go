/*
 * MIT License
 *
 * Copyright (c) 2022-2022 waj334
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/nadongjun/lwmqtt-go/adapters/tcptransport"
	"github.com/nadongjun/lwmqtt-go/adapters/walltimer"
	"github.com/nadongjun/lwmqtt-go/mqtt"
	"github.com/nadongjun/lwmqtt-go/mqtt/packets"
)

// connectCommand dials a broker, performs the CONNECT handshake, optionally subscribes to
// a set of topics, and then runs an interactive session: incoming PUBLISH packets are
// printed as they arrive, and lines typed at the prompt are published as "topic payload".
var connectCommand = &cli.Command{
	Name:  "connect",
	Usage: "connect to a broker and start an interactive session",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "broker", Aliases: []string{"b"}, Value: "localhost:1883", Usage: "broker address, host:port"},
		&cli.StringFlag{Name: "client-id", Aliases: []string{"i"}, Usage: "client id (random if omitted)"},
		&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "username, if the broker requires auth"},
		&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "password (prompted interactively if username is set and this is omitted)"},
		&cli.BoolFlag{Name: "clean-session", Value: true, Usage: "start a clean session"},
		&cli.IntFlag{Name: "keep-alive", Value: 30, Usage: "keep-alive interval in seconds"},
		&cli.StringSliceFlag{Name: "subscribe", Aliases: []string{"s"}, Usage: "topic filter to subscribe to, may be repeated"},
		&cli.IntFlag{Name: "qos", Value: 0, Usage: "QoS for subscriptions and published lines (0, 1, or 2)"},
	},
	Action: connectAction,
}

func connectAction(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)

	clientID := cmd.String("client-id")
	if clientID == "" {
		clientID = "mqttline-" + uuid.NewString()
	}

	username := cmd.String("username")
	password := cmd.String("password")
	if username != "" && password == "" {
		var err error
		password, err = promptPassword("Password: ")
		if err != nil {
			return fatalf("read password: %w", err)
		}
	}

	qos := packets.QoS(cmd.Int("qos"))
	if qos > packets.QoS2 {
		return fatalf("qos must be 0, 1, or 2")
	}

	broker := cmd.String("broker")
	logger.Info("dialing broker", "addr", broker)
	transport, err := tcptransport.Dial(broker)
	if err != nil {
		return fatalf("dial %s: %w", broker, err)
	}
	defer transport.Close()

	writeBuf := make([]byte, 4096)
	readBuf := make([]byte, 4096)
	client := mqtt.New(writeBuf, readBuf)
	client.SetTransport(transport)
	client.SetTimers(walltimer.New(), walltimer.New())
	client.SetCallback(func(topic string, payload []byte, qos packets.QoS, retain bool) {
		logger.Info("message received", "topic", topic, "qos", int(qos), "retain", retain)
		fmt.Printf("%s: %s\n", topic, payload)
	})

	sessionPresent, err := client.Connect(packets.Connect{
		CleanSession: cmd.Bool("clean-session"),
		KeepAlive:    uint16(cmd.Int("keep-alive")),
		ClientID:     clientID,
		Username:     username,
		Password:     password,
	}, 5000)
	if err != nil {
		return fatalf("connect: %w", err)
	}
	logger.Info("connected", "client_id", clientID, "session_present", sessionPresent)

	for _, filter := range cmd.StringSlice("subscribe") {
		granted, err := client.Subscribe(filter, qos, 5000)
		if err != nil {
			return fatalf("subscribe %s: %w", filter, err)
		}
		if granted == packets.QoSFailure {
			logger.Warn("subscription refused", "filter", filter)
			continue
		}
		logger.Info("subscribed", "filter", filter, "qos", int(granted))
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error { return yieldLoop(gctx, client, logger) })
	group.Go(func() error { return publishLoop(gctx, client, qos, logger) })

	if err := group.Wait(); err != nil && !errors.Is(err, errSessionClosed) {
		return err
	}

	return client.Disconnect(2000)
}

var errSessionClosed = errors.New("mqttline: session closed")

// yieldLoop drives the client's blocking read/keep-alive loop for as long as the session
// stays open, handing CPU back between iterations via a short per-call timeout.
func yieldLoop(ctx context.Context, client *mqtt.Client, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := client.KeepAlive(2000); err != nil {
			return fmt.Errorf("keep-alive: %w", err)
		}
		if err := client.Yield(500); err != nil {
			return fmt.Errorf("yield: %w", err)
		}
	}
}

// publishLoop reads "topic payload" lines from stdin and publishes them until stdin closes.
func publishLoop(ctx context.Context, client *mqtt.Client, qos packets.QoS, logger *slog.Logger) error {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("type 'topic payload' to publish, or Ctrl-D to quit")
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		topic, payload, ok := strings.Cut(line, " ")
		if !ok {
			logger.Warn("expected 'topic payload'", "input", line)
			continue
		}
		if err := client.Publish(topic, []byte(payload), qos, false, 2000); err != nil {
			logger.Error("publish failed", "topic", topic, "error", err)
			continue
		}
		logger.Debug("published", "topic", topic)
	}
	return errSessionClosed
}

// promptPassword reads a password from the terminal without echoing it, falling back to
// plain input when stdin is not a terminal.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(password), nil
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
