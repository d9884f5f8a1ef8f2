package http

import (
	"bufio"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/turnos-api/internal/application/opstatus"
)

const statusKeepAlive = 15 * time.Second

// StatusHandler expone el último estado de cada operación de caso de uso.
type StatusHandler struct {
	tracker *opstatus.Tracker
}

// NewStatusHandler construye el handler.
func NewStatusHandler(tracker *opstatus.Tracker) *StatusHandler {
	return &StatusHandler{tracker: tracker}
}

// Snapshot GET /api/status[?op=ventas.load]
func (h *StatusHandler) Snapshot(c *fiber.Ctx) error {
	if op := c.Query("op"); op != "" {
		st, ok := h.tracker.Get(op)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"op": op})
		}
		return c.JSON(st)
	}
	return c.JSON(h.tracker.Snapshot())
}

// Stream GET /api/status/stream: eventos SSE. Primero el estado actual, luego cada cambio.
func (h *StatusHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	ch, cancel := h.tracker.Subscribe(32)
	initial := h.tracker.Snapshot()
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		ticker := time.NewTicker(statusKeepAlive)
		defer ticker.Stop()
		_ = streamStatus(w, initial, ch, ticker.C)
	})
	return nil
}

// streamStatus escribe hasta que ch se cierre o el cliente se desconecte (falla el Flush).
func streamStatus(w *bufio.Writer, initial []opstatus.Status, ch <-chan opstatus.Status, ping <-chan time.Time) error {
	for _, st := range initial {
		if err := writeStatusEvent(w, st); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	for {
		select {
		case st, ok := <-ch:
			if !ok {
				return nil
			}
			if err := writeStatusEvent(w, st); err != nil {
				return err
			}
		case <-ping:
			if _, err := w.WriteString(": ping\n\n"); err != nil {
				return err
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
}

func writeStatusEvent(w *bufio.Writer, st opstatus.Status) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if _, err := w.WriteString("event: status\ndata: "); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = w.WriteString("\n\n")
	return err
}
