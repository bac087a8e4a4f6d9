package handlers

type ReturnType struct {
	Message string `json:"message"`
}

// ErrorResponse - Same shape the frontend already reads errors from.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
