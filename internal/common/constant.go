package common

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// FlashCookieName is the cookie carrying pending flash messages between a
// redirect and the page that displays them.
const FlashCookieName = "flash"
