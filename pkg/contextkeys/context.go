package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// Ключи gin.Context, которые заполняет IdentityMiddleware.
// gin хранит ключи строками, поэтому наружу отдаем string.
const (
	CallerIDKey   = string(contextKey("caller_id"))
	CallerRoleKey = string(contextKey("caller_role"))
)
