package transport

// Envelope wraps every API response. Error responses carry the domain error
// code and, for validation and state errors, the offending details in Meta.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// Page describes the window of a list response.
type Page struct {
	Limit  int  `json:"limit"`
	Offset int  `json:"offset"`
	Count  int  `json:"count"`
	More   bool `json:"more"`
}

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewPage builds a list envelope. A full page hints that more rows may follow.
func NewPage(items interface{}, count, limit, offset int) Envelope {
	return NewSuccess(items, Page{
		Limit:  limit,
		Offset: offset,
		Count:  count,
		More:   limit > 0 && count >= limit,
	})
}

func NewError(code string, message string, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  message,
		Meta:   meta,
	}
}
