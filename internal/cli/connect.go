package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

type wireEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func newConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Connect to the world and stream events",
		Long: `Connect dials the realtime websocket with the saved token and streams
world events to stdout. Commands are read from stdin:

  move <x> <y> [run]   report a position update
  say <text>           send a chat message
  quit                 disconnect`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token == "" {
				return fmt.Errorf("no token: run 'account login' first")
			}

			url := client.WebsocketURL() + "?token=" + cfg.Token
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				return fmt.Errorf("dial failed: %w", err)
			}
			defer func() { _ = conn.Close() }()

			fmt.Println("Connected. Type 'move <x> <y> [run]', 'say <text>', or 'quit'.")

			done := make(chan struct{})
			go func() {
				defer close(done)
				for {
					var ev wireEnvelope
					if err := conn.ReadJSON(&ev); err != nil {
						if closeErr, ok := err.(*websocket.CloseError); ok {
							fmt.Printf("Disconnected: %s (%d)\n", closeErr.Text, closeErr.Code)
						} else {
							fmt.Printf("Connection lost: %v\n", err)
						}
						return
					}
					printEvent(ev)
				}
			}()

			go readCommands(conn)

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

			select {
			case <-done:
			case <-interrupt:
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				<-done
			}
			return nil
		},
	}
}

// readCommands turns stdin lines into wire events until stdin closes
func readCommands(conn *websocket.Conn) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "quit", "exit":
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case "move":
			if len(fields) < 3 {
				fmt.Println("usage: move <x> <y> [run]")
				continue
			}
			x, errX := strconv.ParseFloat(fields[1], 64)
			y, errY := strconv.ParseFloat(fields[2], 64)
			if errX != nil || errY != nil {
				fmt.Println("usage: move <x> <y> [run]")
				continue
			}
			running := len(fields) > 3 && fields[3] == "run"
			writeEvent(conn, "move", map[string]any{"x": x, "y": y, "isRunning": running})
		case "say":
			text := strings.TrimSpace(strings.TrimPrefix(line, "say"))
			if text == "" {
				fmt.Println("usage: say <text>")
				continue
			}
			writeEvent(conn, "chat", map[string]any{"text": text})
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

func writeEvent(conn *websocket.Conn, eventType string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := conn.WriteJSON(wireEnvelope{Type: eventType, Data: payload}); err != nil {
		fmt.Printf("send failed: %v\n", err)
	}
}

// printEvent renders one server event as a human-readable line
func printEvent(ev wireEnvelope) {
	switch ev.Type {
	case "init":
		var players map[string]struct {
			PlayerID    string  `json:"playerId"`
			DisplayName string  `json:"displayName"`
			X           float64 `json:"x"`
			Y           float64 `json:"y"`
		}
		if json.Unmarshal(ev.Data, &players) == nil {
			fmt.Printf("* %d player(s) online\n", len(players))
			for _, p := range players {
				fmt.Printf("  - %s at (%.0f, %.0f)\n", p.DisplayName, p.X, p.Y)
			}
		}
	case "joined":
		var p struct {
			DisplayName string  `json:"displayName"`
			X           float64 `json:"x"`
			Y           float64 `json:"y"`
		}
		if json.Unmarshal(ev.Data, &p) == nil {
			fmt.Printf("* %s joined at (%.0f, %.0f)\n", p.DisplayName, p.X, p.Y)
		}
	case "moved":
		var p struct {
			DisplayName string  `json:"displayName"`
			X           float64 `json:"x"`
			Y           float64 `json:"y"`
			IsRunning   bool    `json:"isRunning"`
		}
		if json.Unmarshal(ev.Data, &p) == nil {
			pace := "walks"
			if p.IsRunning {
				pace = "runs"
			}
			fmt.Printf("* %s %s to (%.0f, %.0f)\n", p.DisplayName, pace, p.X, p.Y)
		}
	case "left":
		var p struct {
			PlayerID string `json:"playerId"`
		}
		if json.Unmarshal(ev.Data, &p) == nil {
			fmt.Printf("* %s left\n", p.PlayerID)
		}
	case "chat":
		var msg struct {
			SenderName string `json:"senderName"`
			Text       string `json:"text"`
		}
		if json.Unmarshal(ev.Data, &msg) == nil {
			fmt.Printf("<%s> %s\n", msg.SenderName, msg.Text)
		}
	default:
		raw, _ := json.Marshal(ev)
		fmt.Println(string(raw))
	}
}
