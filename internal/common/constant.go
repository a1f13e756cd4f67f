package common

// RequestIDHeaderName is the HTTP header carrying a client-generated
// request identifier on outbound API calls.
const RequestIDHeaderName = "X-Request-Id"
