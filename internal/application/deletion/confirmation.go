// Package deletion confirma borrados y arma la notificación que ve el usuario.
package deletion

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Colores de la notificación.
const (
	ColorSuccess = "success"
	ColorError   = "error"
)

// Notification aviso de resultado de un borrado.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// Confirmation borra una entidad y traduce el resultado en una Notification.
// OnSuccess es opcional, por ejemplo para refrescar un listado.
type Confirmation struct {
	EntityName string
	Delete     func(ctx context.Context, id int64) error
	OnSuccess  func(ctx context.Context) error
	Log        zerolog.Logger
}

// Confirm ejecuta el borrado. Nunca devuelve error: los fallos se registran y se informan
// en la notificación. Un id cero no hace nada y devuelve nil.
func (c Confirmation) Confirm(ctx context.Context, id int64) *Notification {
	if id == 0 {
		return nil
	}
	if err := c.Delete(ctx, id); err != nil {
		c.Log.Error().Err(err).Str("entity", c.EntityName).Int64("id", id).Msg("error al eliminar")
		return &Notification{
			Title:       "Error",
			Description: "No se pudo eliminar el " + strings.ToLower(c.EntityName),
			Color:       ColorError,
		}
	}
	if c.OnSuccess != nil {
		if err := c.OnSuccess(ctx); err != nil {
			c.Log.Warn().Err(err).Str("entity", c.EntityName).Msg("error al refrescar después de eliminar")
		}
	}
	return &Notification{
		Title:       c.EntityName + " eliminado",
		Description: "Se eliminó correctamente",
		Color:       ColorSuccess,
	}
}
