package ports

import "context"

// Claves de ruteo de los eventos de dominio.
const (
	EventTurnoSeriesCreated = "turno.series_created"
	EventTabClosed          = "tab.closed"
	EventTabCancelled       = "tab.cancelled"
	EventVentaCompletada    = "venta.completada"
	EventVentaCancelada     = "venta.cancelada"
)

// EventPublisher puerto de salida para eventos de dominio.
// Los casos de uso publican después de confirmar el cambio; un fallo de publicación
// se registra pero no revierte la operación.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// NoopPublisher descarta los eventos (sin AMQP configurado y en tests).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
