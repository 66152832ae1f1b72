// Package watch is a headless canvas client. It connects to a running serve
// instance over socket.io and mirrors the canvas event stream to the log,
// which makes a server observable without a browser.
package watch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/pathlab/internal/ctxlog"
)

// connectTimeout bounds the initial handshake only; a connected watcher runs
// until its context is cancelled.
const connectTimeout = 15 * time.Second

var watchedEvents = []string{
	"upsert_node",
	"remove_node",
	"upsert_edge",
	"remove_edge",
	"fit_view",
	"notice",
	"connections",
	"prompt_weight",
}

// Run connects to serverURL and logs every canvas event until ctx is done.
func Run(ctx context.Context, serverURL string) error {
	logger := ctxlog.FromContext(ctx).With("server", serverURL)
	logger.Info("Connecting to canvas stream...")

	parsedURL, err := url.Parse(serverURL)
	if err != nil {
		return fmt.Errorf("failed to parse server URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to canvas stream. 👀", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, _ := errs[0].(error)
		connectChan <- err
	})

	for _, event := range watchedEvents {
		io.On(types.EventName(event), func(data ...any) {
			var payload any
			if len(data) > 0 {
				payload = data[0]
			}
			logger.Info("Canvas event.", "event", event, "payload", payload)
		})
	}

	io.Connect()
	defer io.Disconnect()

	select {
	case err := <-connectChan:
		if err != nil {
			return fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(connectTimeout):
		return fmt.Errorf("timed out after %s waiting for socket.io connection", connectTimeout)
	}

	<-ctx.Done()
	logger.Info("Watcher stopping.")
	return ctx.Err()
}
