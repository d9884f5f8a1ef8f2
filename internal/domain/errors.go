package domain

import "errors"

// Códigos de error de la aplicación. El conjunto es cerrado: todo error que llega al cliente
// termina en uno de estos códigos.
const (
	CodeClientPhoneExists     = "CLIENT_PHONE_EXISTS"
	CodeClientNotFound        = "CLIENT_NOT_FOUND"
	CodeProductNotFound       = "PRODUCT_NOT_FOUND"
	CodeInsufficientStock     = "INSUFFICIENT_STOCK"
	CodeVentaNotFound         = "VENTA_NOT_FOUND"
	CodeVentaAlreadyCompleted = "VENTA_ALREADY_COMPLETED"
	CodeVentaAlreadyCancelled = "VENTA_ALREADY_CANCELLED"
	CodeTabNotFound           = "TAB_NOT_FOUND"
	CodeTabNotOpen            = "TAB_NOT_OPEN"
	CodeNotFound              = "NOT_FOUND"
	CodeInvalidInput          = "INVALID_INPUT"
	CodeUniqueViolation       = "UNIQUE_VIOLATION"
	CodeForeignKeyViolation   = "FOREIGN_KEY_VIOLATION"
	CodeNotNullViolation      = "NOT_NULL_VIOLATION"
	CodeCheckViolation        = "CHECK_VIOLATION"
	CodePermissionDenied      = "PERMISSION_DENIED"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeNetworkError          = "NETWORK_ERROR"
	CodeTimeout               = "TIMEOUT"
	CodeUnknown               = "UNKNOWN_ERROR"
)

// DefaultMessage se usa cuando el código no tiene mensaje propio.
const DefaultMessage = "Ocurrió un error inesperado. Intentá nuevamente."

// messages textos para el usuario final (español de Argentina).
var messages = map[string]string{
	CodeClientPhoneExists:     "Ya existe un cliente con ese teléfono.",
	CodeClientNotFound:        "No se encontró el cliente.",
	CodeProductNotFound:       "No se encontró el producto.",
	CodeInsufficientStock:     "Stock insuficiente para completar la operación.",
	CodeVentaNotFound:         "No se encontró la venta.",
	CodeVentaAlreadyCompleted: "La venta ya fue completada.",
	CodeVentaAlreadyCancelled: "La venta ya fue cancelada.",
	CodeTabNotFound:           "No se encontró la cuenta.",
	CodeTabNotOpen:            "La cuenta ya fue cerrada o cancelada.",
	CodeNotFound:              "No se encontró el registro.",
	CodeInvalidInput:          "Los datos ingresados no son válidos.",
	CodeUniqueViolation:       "Ya existe un registro con esos datos.",
	CodeForeignKeyViolation:   "No se puede eliminar porque está siendo utilizado.",
	CodeNotNullViolation:      "Falta información requerida.",
	CodeCheckViolation:        "Los datos no cumplen con las restricciones.",
	CodePermissionDenied:      "No tenés permisos para realizar esta acción.",
	CodeUnauthorized:          "Necesitás iniciar sesión para continuar.",
	CodeNetworkError:          "Error de conexión. Verificá tu conexión a internet.",
	CodeTimeout:               "La operación tardó demasiado. Intentá nuevamente.",
	CodeUnknown:               DefaultMessage,
}

// AppError error de aplicación con código estable y mensaje para el usuario.
// Err conserva el error original para logs; nunca se expone al cliente.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError construye un AppError. Si customMessage está vacío se usa el mensaje del código.
func NewAppError(code, customMessage string, original error) *AppError {
	msg := customMessage
	if msg == "" {
		msg = MessageFor(code)
	}
	return &AppError{Code: code, Message: msg, Err: original}
}

// Invalid atajo para errores de validación con detalle propio.
func Invalid(detail string) *AppError {
	return NewAppError(CodeInvalidInput, detail, nil)
}

// IsKnownCode indica si el código pertenece a la taxonomía.
func IsKnownCode(code string) bool {
	_, ok := messages[code]
	return ok
}

// MessageFor devuelve el mensaje fijo del código o DefaultMessage.
func MessageFor(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return DefaultMessage
}

// AsAppError extrae el AppError de la cadena, si existe.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf devuelve el código del error o CodeUnknown.
func CodeOf(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return CodeUnknown
}

// ErrorMessage mensaje apto para mostrar al usuario a partir de cualquier error.
func ErrorMessage(err error) string {
	if err == nil {
		return DefaultMessage
	}
	if appErr, ok := AsAppError(err); ok {
		if appErr.Message != "" {
			return appErr.Message
		}
		return MessageFor(appErr.Code)
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultMessage
}

// PublicMessage mensaje para respuestas fuera del proceso. UNKNOWN_ERROR y los códigos
// ajenos a la taxonomía usan el mensaje genérico: su texto puede traer detalles del driver.
func PublicMessage(err error) string {
	if code := CodeOf(err); code == CodeUnknown || !IsKnownCode(code) {
		return MessageFor(CodeUnknown)
	}
	return ErrorMessage(err)
}
