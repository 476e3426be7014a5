package constants

// SessionName is the cookie session name
const SessionName = "giftlist_session"

// ContextKeyUserUUID is the session and gin context key holding the
// authenticated user's UUID
const ContextKeyUserUUID = "user_uuid"
