package types

// SuccessEnvelope wraps every successful API payload, so an order detail
// renders as {"data": {...order...}} and listings as {"data": {"orders": [...]}}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape. Details is only populated for codes
// whose metadata allows it, such as validation field errors.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
