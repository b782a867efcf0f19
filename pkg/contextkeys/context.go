package contextkeys

// Custom key type to avoid context collisions.
type contextKey string

// DBContextKey is the key under which *gorm.DB is stored in the request
// context (the pool, or a transaction injected by tests).
const DBContextKey = contextKey("db")
